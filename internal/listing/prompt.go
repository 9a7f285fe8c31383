package listing

import (
	"fmt"
	"strings"
	"text/template"
)

// promptTemplate instructs an external planning agent to produce a plan
// script in the format the executor consumes.
const promptTemplate = `Below is a list of all files and directories in the {{.Root}} directory.
For each file, only the file name and path are included.

Please create a plan file containing instructions to reorganize this directory based on this information.
Your goal is to minimize the time needed for a human to find a file or directory.
This means the level of nesting should not be larger than 2.
Create directories whose names carry the most information possible while staying easy to read, and group as many files as possible.
The number of top-level categories should be close to the number of nested categories in each top-level category.
The number of leaf directories should be close to the number of files in each leaf directory.
Don't use wildcards in your plan; each line changes a single file or directory.
You can use the following commands:
- MKDIR "<dir>"
- MOVE "<src>" "<dst>"
- RENAME "<old>" "<new>"

The goal is to make the directory structure more organized.

Here is the list of files and directories:
{{.Listing}}

After completing, please output the contents of your plan file below.
`

// Prompt renders the planning prompt for the given root and entries.
func Prompt(root string, entries []Entry) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}
	var b strings.Builder
	data := struct {
		Root    string
		Listing string
	}{Root: root, Listing: Render(entries)}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
