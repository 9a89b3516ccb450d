package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ConcatenatesInEnumerationOrder(t *testing.T) {
	dir := t.TempDir()
	// os.ReadDir 按文件名排序：01 在 02 之前。
	writeFile(t, filepath.Join(dir, "01-news.json"), []byte(`[{"number":"1"},{"number":"2"}]`))
	writeFile(t, filepath.Join(dir, "02-sports.json"), []byte(`[{"number":"3"}]`))

	records, skipped, loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("不期望跳过：%+v", skipped)
	}
	if loaded != 2 {
		t.Fatalf("期望 loaded=2，实际=%d", loaded)
	}
	if len(records) != 3 {
		t.Fatalf("期望 3 个条目，实际=%d", len(records))
	}
	for i, want := range []string{"1", "2", "3"} {
		if got, _ := records[i]["number"].(string); got != want {
			t.Fatalf("顺序不正确：records[%d].number=%q，期望=%q", i, got, want)
		}
	}
}

func TestLoad_BadFileSkippedRunContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), []byte(`[{"number":"1"}]`))
	writeFile(t, filepath.Join(dir, "b.json"), []byte(`{not json`))
	writeFile(t, filepath.Join(dir, "c.json"), []byte(`[{"number":"2"}]`))

	records, skipped, loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("坏文件不应让整个 run 失败：%v", err)
	}
	if len(records) != 2 {
		t.Fatalf("期望坏文件之外的 2 个条目，实际=%d", len(records))
	}
	if loaded != 2 {
		t.Fatalf("期望 loaded=2，实际=%d", loaded)
	}
	if len(skipped) != 1 || skipped[0].File != "b.json" {
		t.Fatalf("期望 b.json 被记入 skipped，实际=%+v", skipped)
	}
	if skipped[0].Reason == "" {
		t.Fatalf("skipped 必须带原因")
	}
}

func TestLoad_NonArrayJSONSkipped(t *testing.T) {
	dir := t.TempDir()
	// 合法 JSON 但不是对象数组：同样按坏文件处理。
	writeFile(t, filepath.Join(dir, "object.json"), []byte(`{"number":"1"}`))

	records, skipped, loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(records) != 0 || loaded != 0 {
		t.Fatalf("期望 0 条目，实际 records=%d loaded=%d", len(records), loaded)
	}
	if len(skipped) != 1 || skipped[0].File != "object.json" {
		t.Fatalf("期望 object.json 被跳过，实际=%+v", skipped)
	}
}

func TestLoad_SubdirectoriesIgnored(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	writeFile(t, filepath.Join(dir, "nested", "x.json"), []byte(`[{"number":"9"}]`))
	writeFile(t, filepath.Join(dir, "a.json"), []byte(`[{"number":"1"}]`))

	records, skipped, _, err := Load(dir)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(records) != 1 {
		t.Fatalf("子目录不应参与合并：records=%d", len(records))
	}
	if len(skipped) != 0 {
		t.Fatalf("子目录不应记入 skipped：%+v", skipped)
	}
}

func TestLoad_MissingDirFatal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	_, _, _, err := Load(dir)
	if err == nil {
		t.Fatalf("期望目录读取失败，但得到 nil")
	}
}

func TestLoad_EmptyDirYieldsEmptyNonNil(t *testing.T) {
	records, skipped, loaded, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("期望非 nil 空切片（序列化为 [] 而非 null），实际=%#v", records)
	}
	if len(skipped) != 0 || loaded != 0 {
		t.Fatalf("期望空结果，实际 skipped=%d loaded=%d", len(skipped), loaded)
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
