package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffective_DefaultsWithoutConfig(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Root != cwd {
		t.Fatalf("期望 root=%q，实际=%q", cwd, eff.Root)
	}
	if eff.ListsDir != filepath.Join(cwd, DefaultListsDir) {
		t.Fatalf("期望 lists_dir 默认值，实际=%q", eff.ListsDir)
	}
	if eff.OutFile != filepath.Join(cwd, DefaultOutFile) {
		t.Fatalf("期望 out 默认值，实际=%q", eff.OutFile)
	}
	if eff.Check {
		t.Fatalf("期望 check 默认 false")
	}
}

func TestLoadEffective_CLIPathAsRoot(t *testing.T) {
	cwd := t.TempDir()
	root := filepath.Join(cwd, "project")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}

	// 相对 path 相对 cwd 解析。
	eff, err := LoadEffective(cwd, CLIArgs{Path: "project"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Root != root {
		t.Fatalf("期望 root=%q，实际=%q", root, eff.Root)
	}
	if eff.ListsDir != filepath.Join(root, "lists") {
		t.Fatalf("期望 lists_dir 相对 root 解析，实际=%q", eff.ListsDir)
	}
}

func TestLoadEffective_ConfigFileOverridesDefaults(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"lists_dir":"data/lists","out":"dist/channels.json","check":true}`))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.ListsDir != filepath.Join(cwd, "data", "lists") {
		t.Fatalf("期望 lists_dir 来自配置，实际=%q", eff.ListsDir)
	}
	if eff.OutFile != filepath.Join(cwd, "dist", "channels.json") {
		t.Fatalf("期望 out 来自配置，实际=%q", eff.OutFile)
	}
	if !eff.Check {
		t.Fatalf("期望 check=true（来自配置）")
	}
}

func TestLoadEffective_CLIOverridesConfig(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"out":"from-config.json","check":true}`))

	eff, err := LoadEffective(cwd, CLIArgs{
		Out:    "from-cli.json",
		OutSet: true,
		// --check=false 必须能覆盖 config.check=true。
		Check:    false,
		CheckSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.OutFile != filepath.Join(cwd, "from-cli.json") {
		t.Fatalf("期望 CLI --out 覆盖配置，实际=%q", eff.OutFile)
	}
	if eff.Check {
		t.Fatalf("期望 --check=false 覆盖配置中的 check=true")
	}
}

func TestLoadEffective_InvalidConfigJSON(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{`))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_OutInsideListsDirRejected(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{
		Out:    filepath.Join("lists", "channels.json"),
		OutSet: true,
	})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q（输出落在清单目录内），实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_EmptyOutRejected(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{Out: "  ", OutSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
