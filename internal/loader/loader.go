package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/domain"
)

// Load 读取 dir 下的全部清单文件，按目录枚举顺序串接为一个原始条目序列。
//
// 规则（硬约束）：
// - 子目录跳过；每个普通文件应包含一个“JSON 对象数组”
// - os.ReadDir 按文件名排序，枚举顺序跨平台稳定（保证输出可复现）
// - 目录读取失败：致命，返回 error，整个 run 中止
// - 单个文件读取/解析失败：非致命，跳过该文件并记入 skipped，run 继续
//
// “跳过坏文件继续跑”是刻意为之：单个类别文件损坏不应拦住其余类别的合并，
// 但跳过必须进报告（skipped），不允许静默丢数据。
//
// 返回值 loaded 是成功解析的文件数。
func Load(dir string) (records []domain.Record, skipped []domain.SkippedFile, loaded int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, 0, err
	}

	records = make([]domain.Record, 0, 64)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			// 枚举之后文件仍可能读不到（权限/竞态）；与解析失败同策略。
			skipped = append(skipped, domain.SkippedFile{
				File:   name,
				Reason: fmt.Sprintf("读取失败：%v", err),
			})
			continue
		}

		var arr []domain.Record
		if err := json.Unmarshal(b, &arr); err != nil {
			skipped = append(skipped, domain.SkippedFile{
				File:   name,
				Reason: fmt.Sprintf("解析失败（应为 JSON 对象数组）：%v", err),
			})
			continue
		}

		records = append(records, arr...)
		loaded++
	}
	return records, skipped, loaded, nil
}
