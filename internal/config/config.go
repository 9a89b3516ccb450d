package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
const ErrCodeInvalid = "config_invalid"

const (
	// FileName 是配置文件名（位于 root 下，可选）。
	FileName = "ptvlist.json"
	// DefaultListsDir 是清单目录的默认值（相对 root）。
	DefaultListsDir = "lists"
	// DefaultOutFile 是输出文件的默认值（相对 root）。
	DefaultOutFile = "channels.json"
)

// CLIArgs 只包含 CLI 暴露的三项入口（path/out/check），并保留“是否显式指定”的信息。
// 这能保证覆盖优先级可实现：例如 --check=false 必须能覆盖 config.check=true。
type CLIArgs struct {
	Path string

	Out    string
	OutSet bool

	Check    bool
	CheckSet bool
}

// FileConfig 对应 ptvlist.json 的解析结构。
type FileConfig struct {
	ListsDir string `json:"lists_dir"`
	Out      string `json:"out"`
	Check    *bool  `json:"check"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置
// （实现层直接消费，不再做二次默认/优先级判断）。
//
// 不变量：Root/ListsDir/OutFile 均为 clean + absolute。
type EffectiveConfig struct {
	Root     string
	ListsDir string
	OutFile  string
	Check    bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：root = CLI path（缺省为 cwd），配置文件固定在 <root>/ptvlist.json，
// 不存在不算错误——每个字段都有内置默认值。
//
// 覆盖优先级（固定）：
// - out：CLI --out > config out > 默认 channels.json
// - check：CLI --check/--check=false > config check > 默认 false
// - lists_dir：仅由 config 控制（CLI 不暴露）> 默认 lists
// 相对路径一律相对 root 解析。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	root := cwdAbs
	if strings.TrimSpace(cli.Path) != "" {
		root = absCleanFrom(cwdAbs, cli.Path)
	}

	cfgPath := filepath.Join(root, FileName)
	fc, _, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	return merge(root, cli, fc, cfgPath)
}

func merge(root string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	listsDir := DefaultListsDir
	if strings.TrimSpace(fc.ListsDir) != "" {
		listsDir = fc.ListsDir
	}

	// out：CLI > config > 默认
	out := DefaultOutFile
	if cli.OutSet {
		if strings.TrimSpace(cli.Out) == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: fmt.Errorf("--out 不能为空")}
		}
		out = cli.Out
	} else if strings.TrimSpace(fc.Out) != "" {
		out = fc.Out
	}

	// check：CLI > config > 默认 false
	check := false
	if cli.CheckSet {
		check = cli.Check
	} else if fc.Check != nil {
		check = *fc.Check
	}

	listsAbs := absCleanFrom(root, listsDir)
	outAbs := absCleanFrom(root, out)

	// 输出文件不允许落在清单目录内：否则下一次 run 会把自己的产物当输入读回来。
	if isUnder(filepath.Dir(outAbs), listsAbs) {
		return EffectiveConfig{}, &Error{
			Code: ErrCodeInvalid,
			Path: cfgPath,
			Err:  fmt.Errorf("输出文件 %q 不能位于清单目录 %q 内", outAbs, listsAbs),
		}
	}

	return EffectiveConfig{
		Root:     root,
		ListsDir: listsAbs,
		OutFile:  outAbs,
		Check:    check,
	}, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, base+sep)
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
