package surface

// Appearance 宿主外观模式，与宿主配置 appearance.mode 的取值一致。
type Appearance int

const (
	Light Appearance = 0
	Dark  Appearance = 1
)

func (a Appearance) String() string {
	if Dark == a {
		return "dark"
	}
	return "light"
}

// Theme 编辑器配色。Style 为生成样式表时使用的 chroma 风格名。
type Theme struct {
	Name  string
	Dark  bool
	Style string
}

var (
	GitHubLight = Theme{Name: "github-light", Style: "github"}
	GitHubDark  = Theme{Name: "github-dark", Dark: true, Style: "monokai"}
)

// Themes 列出所有主题。
var Themes = []Theme{GitHubLight, GitHubDark}

// ThemeFor 按宿主外观选择主题。
func ThemeFor(a Appearance) Theme {
	if Dark == a {
		return GitHubDark
	}
	return GitHubLight
}
