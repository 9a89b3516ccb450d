package validate

import (
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/domain"
)

// Unique 检查 number 在合并序列内唯一。
//
// 报告顺序契约：重复值按其“第二次出现”的先后排列；Count 为总出现次数。
// 只出现一次的值永不进报告。
func Unique(channels []domain.Channel) []domain.DuplicateIssue {
	seen := make(map[string]int, len(channels))
	at := make(map[string]int)
	var dups []domain.DuplicateIssue

	for _, ch := range channels {
		seen[ch.Number]++
		switch seen[ch.Number] {
		case 1:
			// 首次出现：不报告
		case 2:
			at[ch.Number] = len(dups)
			dups = append(dups, domain.DuplicateIssue{Number: ch.Number, Count: 2})
		default:
			dups[at[ch.Number]].Count++
		}
	}
	return dups
}
