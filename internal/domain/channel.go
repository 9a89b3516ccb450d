package domain

import (
	"fmt"
	"strings"
)

// Record 是从输入 JSON 数组解析出的原始条目（未经校验）。
//
// 保留原始形态的原因：合并输出必须原样回写每个条目，
// 不在必填集合里的额外键不能在合并过程中丢失。
type Record map[string]any

// Kind 标记 Channel 的变体（由 type 字段判别）。
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// TypeAudio 是 type 字段判别 audio 变体的字面值。
// 其余取值（包括缺失 type）一律按 video 变体校验。
const TypeAudio = "audio"

// videoFields / audioFields 是两个变体的必填字符串字段（缺失按声明顺序报告）。
var (
	videoFields = []string{"number", "name", "code", "type", "category", "playlist"}
	audioFields = []string{"number", "name", "code", "type", "audio"}
)

// Channel 是通过形状校验后的类型化条目。
//
// 不变量：Parse 成功返回的 Channel，其变体必填字段均为字符串且已填充；
// 变体之外的字段保持零值。
type Channel struct {
	Kind Kind

	Number string
	Name   string
	Code   string
	Type   string

	// video 变体
	Category string
	Playlist string

	// audio 变体
	Audio string
}

// ShapeError 描述一个条目的形状校验失败。
// Missing 是该条目全部缺失字段的完整列表，不止第一个。
type ShapeError struct {
	Number  string   // 条目的 number 值；若 number 本身缺失则为空串
	Missing []string // 按变体字段声明顺序排列
}

func (e *ShapeError) Error() string {
	n := e.Number
	if n == "" {
		n = "<unknown>"
	}
	return fmt.Sprintf("条目 %s 缺少必填字段：%s", n, strings.Join(e.Missing, ", "))
}

// Parse 把原始 Record 解析为类型化 Channel。
//
// 判别规则（硬约束）：type == "audio" 按 audio 变体；其余（含缺失 type）按 video 变体。
// 字段“存在”的定义：键存在且 JSON 值类型为字符串；缺键或非字符串值都算缺失。
func Parse(r Record) (Channel, *ShapeError) {
	required := videoFields
	kind := KindVideo
	if s, ok := stringField(r, "type"); ok && s == TypeAudio {
		required = audioFields
		kind = KindAudio
	}

	var missing []string
	for _, f := range required {
		if _, ok := stringField(r, f); !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		num, _ := stringField(r, "number")
		return Channel{}, &ShapeError{Number: num, Missing: missing}
	}

	ch := Channel{Kind: kind}
	ch.Number, _ = stringField(r, "number")
	ch.Name, _ = stringField(r, "name")
	ch.Code, _ = stringField(r, "code")
	ch.Type, _ = stringField(r, "type")
	switch kind {
	case KindAudio:
		ch.Audio, _ = stringField(r, "audio")
	default:
		ch.Category, _ = stringField(r, "category")
		ch.Playlist, _ = stringField(r, "playlist")
	}
	return ch, nil
}

func stringField(r Record, key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return s, true
}
