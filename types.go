package main

// Write strategies define how content is written to files
type writeStrategy string

const (
	strategyOverwrite writeStrategy = "overwrite"  // Replace entire file content
	strategyNoClobber writeStrategy = "no_clobber" // Fail if file exists
	strategyAppend    writeStrategy = "append"     // Add to end of file
)

// MetaFields contains common file metadata
type MetaFields struct {
	Mode       string `json:"mode,omitempty"`        // File permissions in octal
	ModifiedAt string `json:"modified_at,omitempty"` // Last modification time (RFC3339)
}

// TextEdit is one ordered old-text/new-text replacement. Edits in a
// request apply left to right against the evolving buffer.
type TextEdit struct {
	OldText string `json:"old_text" description:"Text to locate; exact substring first, whitespace-tolerant line match as fallback"`
	NewText string `json:"new_text" description:"Replacement text"`
}

// PatchArgs defines parameters for applying text edits
type PatchArgs struct {
	Path   string     `json:"path" description:"Target text file within an allowed root"`
	Edits  []TextEdit `json:"edits" description:"Ordered edits applied left to right"`
	DryRun bool       `json:"dry_run,omitempty" description:"Preview the diff without writing or recording history"`
}

// PatchResult contains patch operation results
type PatchResult struct {
	Path   string `json:"path" description:"File path edited"`
	Edits  int    `json:"edits" description:"Number of edits applied"`
	DryRun bool   `json:"dry_run" description:"Whether the file was left untouched"`
	Bytes  int    `json:"bytes" description:"Final file size"`
	Diff   string `json:"diff" description:"Fenced unified diff of the change"`
}

// InsertArgs defines parameters for inserting a text block
type InsertArgs struct {
	Path string `json:"path" description:"Target text file"`
	Line int    `json:"line" description:"1-based line to insert after; 0 prepends, past-end appends"`
	Text string `json:"text" description:"Block inserted verbatim, without reindentation"`
}

// InsertResult contains insert operation results
type InsertResult struct {
	Path  string `json:"path" description:"File path edited"`
	Line  int    `json:"line" description:"Line the text was inserted after"`
	Bytes int    `json:"bytes" description:"Final file size"`
	Diff  string `json:"diff" description:"Fenced unified diff of the change"`
}

// UndoArgs defines parameters for reverting the last edit
type UndoArgs struct {
	Path string `json:"path" description:"File whose last edit should be reverted"`
}

// UndoResult contains undo operation results
type UndoResult struct {
	Path      string `json:"path" description:"File path reverted"`
	Message   string `json:"message" description:"Reversion annotation"`
	Remaining int    `json:"remaining" description:"Snapshots still recoverable for this path"`
	Diff      string `json:"diff" description:"Fenced unified diff of the reversion"`
}

// ReadArgs defines parameters for reading files
type ReadArgs struct {
	Path     string `json:"path" description:"File path or file:// URI within an allowed root"`
	MaxBytes int    `json:"max_bytes,omitempty" description:"Maximum bytes to return"`
}

// ReadResult contains file read operation results
type ReadResult struct {
	Path      string `json:"path" description:"Original requested path"`
	Size      int64  `json:"size" description:"Total file size in bytes"`
	MIMEType  string `json:"mime_type" description:"Detected MIME type"`
	SHA256    string `json:"sha256" description:"SHA256 hash of content (if under 32MB)"`
	Content   string `json:"content" description:"File content (possibly truncated)"`
	Truncated bool   `json:"truncated" description:"Whether content was truncated"`
	MetaFields
}

// WriteArgs defines parameters for writing files
type WriteArgs struct {
	Path     string        `json:"path" description:"Target file path"`
	Content  string        `json:"content" description:"Data to write"`
	Strategy writeStrategy `json:"strategy,omitempty" description:"Write strategy: overwrite, no_clobber, append"`
	Mode     string        `json:"mode,omitempty" description:"File mode in octal, e.g. 0644"`
}

// WriteResult contains file write operation results
type WriteResult struct {
	Path    string `json:"path" description:"File path written"`
	Action  string `json:"action" description:"Write strategy used"`
	Bytes   int    `json:"bytes" description:"Total bytes in final file"`
	Created bool   `json:"created" description:"Whether file was newly created"`
	SHA256  string `json:"sha256" description:"SHA256 of final content"`
	MetaFields
}

// ListArgs defines parameters for listing directories
type ListArgs struct {
	Path       string `json:"path" description:"Directory to list"`
	Recursive  bool   `json:"recursive,omitempty" description:"Recurse into subdirectories"`
	MaxEntries int    `json:"max_entries,omitempty" description:"Maximum entries to return"`
}

// ListEntry represents a single file/directory entry
type ListEntry struct {
	Path       string `json:"path" description:"Path relative to its allowed root"`
	Name       string `json:"name" description:"Base filename"`
	Kind       string `json:"kind" description:"Type: file/dir/symlink/other"`
	Size       int64  `json:"size" description:"Size in bytes"`
	Mode       string `json:"mode" description:"Permissions in octal"`
	ModifiedAt string `json:"modified_at" description:"Last modified time (RFC3339)"`
}

// ListResult contains directory listing results
type ListResult struct {
	Entries []ListEntry `json:"entries" description:"Directory entries"`
}

// TreeArgs defines parameters for rendering a directory tree
type TreeArgs struct {
	Path     string `json:"path" description:"Directory to render"`
	MaxDepth int    `json:"max_depth,omitempty" description:"Depth cap; 0 uses the default"`
}

// TreeResult contains the rendered tree
type TreeResult struct {
	Path string `json:"path" description:"Directory rendered"`
	Tree string `json:"tree" description:"Indented tree listing"`
}

// StatArgs defines parameters for file metadata retrieval
type StatArgs struct {
	Path string `json:"path" description:"File or directory path"`
}

// StatResult contains file metadata
type StatResult struct {
	Path       string `json:"path" description:"Original requested path"`
	Kind       string `json:"kind" description:"Type: file/dir/symlink/other"`
	Size       int64  `json:"size" description:"Size in bytes"`
	Mode       string `json:"mode" description:"Permissions in octal"`
	ModifiedAt string `json:"modified_at" description:"Last modified time (RFC3339)"`
	MIMEType   string `json:"mime_type,omitempty" description:"Detected MIME type for regular files"`
}

// MoveArgs defines parameters for renaming files and directories
type MoveArgs struct {
	Source      string `json:"source" description:"Existing path"`
	Destination string `json:"destination" description:"New path; must not exist"`
}

// MoveResult contains move operation results
type MoveResult struct {
	Source      string `json:"source" description:"Path moved from"`
	Destination string `json:"destination" description:"Path moved to"`
}

// RemoveArgs defines parameters for deleting files and directories
type RemoveArgs struct {
	Path      string `json:"path" description:"File or directory to remove"`
	Recursive bool   `json:"recursive,omitempty" description:"Remove directory contents recursively"`
}

// RemoveResult contains remove operation results
type RemoveResult struct {
	Path    string `json:"path" description:"Path removed"`
	Removed bool   `json:"removed" description:"Whether the path was removed"`
}

// MkdirArgs defines parameters for creating directories
type MkdirArgs struct {
	Path    string `json:"path" description:"Directory path to create; supports brace expansion"`
	Parents bool   `json:"parents,omitempty" description:"Create missing parent directories"`
	Mode    string `json:"mode,omitempty" description:"Directory mode in octal"`
}

// MkdirResult contains directory creation results
type MkdirResult struct {
	Paths   []string `json:"paths" description:"Directories created or confirmed"`
	Created int      `json:"created" description:"How many were newly created"`
}

// SearchArgs defines parameters for text search
type SearchArgs struct {
	Pattern    string `json:"pattern" description:"Text or regex pattern to find"`
	Path       string `json:"path,omitempty" description:"Start directory; defaults to every allowed root"`
	Regex      bool   `json:"regex,omitempty" description:"Interpret pattern as regex"`
	Include    string `json:"include,omitempty" description:"Glob filter files must match, e.g. **/*.go"`
	Exclude    string `json:"exclude,omitempty" description:"Glob filter matching files are skipped by"`
	MaxResults int    `json:"max_results,omitempty" description:"Maximum matches to return"`
}

// SearchMatch represents a single search result
type SearchMatch struct {
	Path string `json:"path" description:"File path relative to its allowed root"`
	Line int    `json:"line" description:"Line number of match"`
	Text string `json:"text" description:"Matching line content"`
}

// SearchResult contains text search results
type SearchResult struct {
	Matches    []SearchMatch          `json:"matches" description:"Found matches"`
	Statistics map[string]interface{} `json:"statistics,omitempty" description:"Search statistics"`
}

// FindDirsArgs defines parameters for directory-name search
type FindDirsArgs struct {
	Query      string `json:"query" description:"Case-insensitive substring of the directory name"`
	Path       string `json:"path,omitempty" description:"Start directory; defaults to every allowed root"`
	Exclude    string `json:"exclude,omitempty" description:"Glob filter matching directories are skipped by"`
	MaxResults int    `json:"max_results,omitempty" description:"Maximum matches to return"`
}

// FindDirsResult contains directory-name search results
type FindDirsResult struct {
	Matches []string `json:"matches" description:"Matched directory paths relative to their roots"`
}

// GlobArgs defines parameters for glob pattern matching
type GlobArgs struct {
	Pattern    string `json:"pattern" description:"Glob pattern; ** enables recursion"`
	MaxResults int    `json:"max_results,omitempty" description:"Maximum matches to return"`
}

// GlobResult contains glob matching results
type GlobResult struct {
	Matches []string `json:"matches" description:"Matched file paths"`
}

// RootsArgs defines parameters for listing allowed roots
type RootsArgs struct{}

// RootsResult contains the allowed root set
type RootsResult struct {
	Roots []string `json:"roots" description:"Canonical allowed roots, in configuration order"`
}
