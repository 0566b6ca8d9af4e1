package terminal

// BlockKind tells the shell how to present a block.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockText    BlockKind = "text"
	BlockField   BlockKind = "field"
	BlockTags    BlockKind = "tags"
	BlockLink    BlockKind = "link"
	BlockError   BlockKind = "error"
	BlockHint    BlockKind = "hint"
	BlockCard    BlockKind = "card"
)

// Block is one unit of structured terminal output.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Label  string    `json:"label,omitempty"`
	Text   string    `json:"text,omitempty"`
	URL    string    `json:"url,omitempty"`
	Tags   []string  `json:"tags,omitempty"`
	Badges []string  `json:"badges,omitempty"`
	Blocks []Block   `json:"blocks,omitempty"`
}

// ActionKind names a side effect the shell should perform.
type ActionKind string

// ActionDownload asks the shell to download Action.URL as Action.Filename.
const ActionDownload ActionKind = "download"

// Action is a side effect declared by a command handler.
type Action struct {
	Kind     ActionKind `json:"kind"`
	URL      string     `json:"url"`
	Filename string     `json:"filename,omitempty"`
}

// Output is what a command produces. The zero value is the empty response.
type Output struct {
	Blocks []Block `json:"blocks"`
	Action *Action `json:"action,omitempty"`
}

// IsEmpty reports whether the output has nothing to render or perform.
func (o Output) IsEmpty() bool {
	return len(o.Blocks) == 0 && o.Action == nil
}

// Text builds an output with one plain text block.
func Text(s string) Output {
	return Output{Blocks: []Block{{Kind: BlockText, Text: s}}}
}

func heading(s string) Block { return Block{Kind: BlockHeading, Text: s} }

func text(s string) Block { return Block{Kind: BlockText, Text: s} }

func hint(s string) Block { return Block{Kind: BlockHint, Text: s} }

func field(label, value string) Block { return Block{Kind: BlockField, Label: label, Text: value} }

func tags(label string, values []string) Block {
	return Block{Kind: BlockTags, Label: label, Tags: append([]string(nil), values...)}
}

func link(label, url string) Block { return Block{Kind: BlockLink, Label: label, URL: url} }
