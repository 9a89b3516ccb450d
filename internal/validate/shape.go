package validate

import (
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/domain"
)

// Shape 对合并序列做穷尽的形状校验。
//
// 一次遍历报告所有无效条目（不是遇到第一个就停），每个无效条目携带
// 其全部缺失字段。返回的 channels 只含通过校验的条目，顺序与输入一致。
func Shape(records []domain.Record) ([]domain.Channel, []domain.ShapeIssue) {
	channels := make([]domain.Channel, 0, len(records))
	var issues []domain.ShapeIssue

	for _, r := range records {
		ch, serr := domain.Parse(r)
		if serr != nil {
			issues = append(issues, domain.ShapeIssue{
				Number:  serr.Number,
				Missing: serr.Missing,
			})
			continue
		}
		channels = append(channels, ch)
	}
	return channels, issues
}
