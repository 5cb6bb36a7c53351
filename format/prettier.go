package format

// PrettierOptions 传给 prettier latex-parser 的选项。
type PrettierOptions struct {
	PrintWidth int
	UseTabs    bool
	TabWidth   int
	Parser     string
}

// DefaultPrettierOptions 默认选项。
var DefaultPrettierOptions = PrettierOptions{
	PrintWidth: 80,
	UseTabs:    true,
	TabWidth:   2,
	Parser:     "latex-parser",
}
