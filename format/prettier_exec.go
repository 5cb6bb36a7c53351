//go:build !javascript
// +build !javascript

package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Prettier 通过命令行调用 prettier 及 prettier-plugin-latex。
type Prettier struct {
	Command []string // 默认 npx prettier
	Options PrettierOptions
}

// NewPrettier 创建默认配置的 prettier 格式化器。
func NewPrettier() *Prettier {
	return &Prettier{Command: []string{"npx", "prettier"}, Options: DefaultPrettierOptions}
}

// Args 返回命令行参数。
func (p *Prettier) Args() (ret []string) {
	ret = append(ret, p.Command[1:]...)
	ret = append(ret,
		"--parser", p.Options.Parser,
		"--plugin", "prettier-plugin-latex",
		"--print-width", strconv.Itoa(p.Options.PrintWidth),
		"--tab-width", strconv.Itoa(p.Options.TabWidth),
	)
	if p.Options.UseTabs {
		ret = append(ret, "--use-tabs")
	}
	return
}

func (p *Prettier) Format(ctx context.Context, text string) (string, error) {
	if 1 > len(p.Command) {
		return "", ErrNoFormatter
	}

	cmd := exec.CommandContext(ctx, p.Command[0], p.Args()...)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); nil != err {
		return "", fmt.Errorf("prettier: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
