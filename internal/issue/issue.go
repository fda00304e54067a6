// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	CatalogOpenFailedId Id = iota + 1
	CatalogBusyId
	BackupNotFoundId
	ConfigLoadFailedId
	ScanRootsUnavailableId
	ScanAlreadyRunningId
	InvalidCategoryNameId
	BuiltInCategoryId
	ItemNotFoundId
	CategoryNotFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue with the given glamour style ("dark", "light",
// "notty", or a path to a style file).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	catalogOpenFailedIssue = &Issue{
		id: CatalogOpenFailedId,
		mdMsg: `
# The software catalog could not be opened!

appshelf keeps its catalog in a single SQLite file. Opening it failed.

## Things you can try:
- Check where appshelf expects the catalog:
~~~
$ appshelf config show
~~~

- Make sure the directory exists and is writable by your user
- Point appshelf at another file for one run:
~~~
$ appshelf --db /tmp/software.db list
~~~

- If the file is damaged, restore a backup:
~~~
$ appshelf db restore ~/software-backup.db
~~~`,
	}

	catalogBusyIssue = &Issue{
		id: CatalogBusyId,
		mdMsg: `
# The catalog is locked!

Another process is writing to the catalog file.

## Things you can try:
- Wait for a running ` + "`appshelf watch`" + ` or ` + "`appshelf scan --save`" + ` to finish
- Stop other appshelf processes and retry`,
	}

	backupNotFoundIssue = &Issue{
		id: BackupNotFoundId,
		mdMsg: `
# Backup file not found!

The file given to ` + "`appshelf db restore`" + ` does not exist. The current catalog was left untouched.

## Things you can try:
- Check the path for typos
- Create a backup first:
~~~
$ appshelf db backup ~/software-backup.db
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

There was an error loading your appshelf configuration file.

## Things you can try:
- Check the config file syntax (CUE format)
- Show the location of the config file:
~~~
$ appshelf config path
~~~

- Write a fresh default configuration:
~~~
$ appshelf config init
~~~

## Example config.cue:
~~~cue
catalog: path: "/home/me/.local/share/appshelf/software.db"
scan: {
	roots: ["/usr/share/applications", "/opt"]
	excludes: ["**/node_modules"]
	heuristic: "auto"
}
watch: debounce: "500ms"
ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	scanRootsUnavailableIssue = &Issue{
		id: ScanRootsUnavailableId,
		mdMsg: `
# No directories could be scanned!

The scan could not determine which directories to walk. This usually means the
home directory could not be resolved.

## Things you can try:
- Pass directories explicitly:
~~~
$ appshelf scan /usr/share/applications ~/Applications
~~~

- Configure default roots with ` + "`scan.roots`" + ` in your config file
- Make sure ` + "`HOME`" + ` (or ` + "`USERPROFILE`" + ` on Windows) is set`,
	}

	scanAlreadyRunningIssue = &Issue{
		id: ScanAlreadyRunningId,
		mdMsg: `
# A scan is already running!

Only one scan can run at a time. The new request was ignored.

## Things you can try:
- Wait for the current scan to finish
- Press Ctrl+C to cancel the running scan`,
	}

	invalidCategoryNameIssue = &Issue{
		id: InvalidCategoryNameId,
		mdMsg: `
# Invalid category name!

Category names must:
- not be empty or only whitespace
- be at most 50 characters long
- not contain any of ` + "`< > : \" / \\ | ? *`",
	}

	builtInCategoryIssue = &Issue{
		id: BuiltInCategoryId,
		mdMsg: `
# Built-in categories cannot be changed!

"All Software" and "Uncategorized" always exist. They cannot be renamed or removed.

## Things you can try:
- Create a new category instead:
~~~
$ appshelf category add "My Tools"
~~~`,
	}

	itemNotFoundIssue = &Issue{
		id: ItemNotFoundId,
		mdMsg: `
# Software item not found!

No catalog entry has that id.

## Things you can try:
- List the catalog to find the right id:
~~~
$ appshelf list
$ appshelf search <name>
~~~`,
	}

	categoryNotFoundIssue = &Issue{
		id: CategoryNotFoundId,
		mdMsg: `
# Category not found!

Items can only be moved into categories that exist.

## Things you can try:
- List the existing categories:
~~~
$ appshelf category list
~~~

- Create the category first:
~~~
$ appshelf category add <name>
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- The catalog or backup directory is not writable
- A scan root is not readable by your user

## Things you can try:
- Check file/directory permissions
- Store the catalog in a directory you own with ` + "`--db`" + ` or ` + "`catalog.path`",
	}

	issues = map[Id]*Issue{
		catalogOpenFailedIssue.Id():    catalogOpenFailedIssue,
		catalogBusyIssue.Id():          catalogBusyIssue,
		backupNotFoundIssue.Id():       backupNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		scanRootsUnavailableIssue.Id(): scanRootsUnavailableIssue,
		scanAlreadyRunningIssue.Id():   scanAlreadyRunningIssue,
		invalidCategoryNameIssue.Id():  invalidCategoryNameIssue,
		builtInCategoryIssue.Id():      builtInCategoryIssue,
		itemNotFoundIssue.Id():         itemNotFoundIssue,
		categoryNotFoundIssue.Id():     categoryNotFoundIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}
