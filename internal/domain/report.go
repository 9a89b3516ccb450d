package domain

import (
	"encoding/json"
	"time"
)

const (
	StatusOK              = "ok"
	StatusShapeFailed     = "shape_failed"
	StatusDuplicateFailed = "duplicate_failed"
	StatusIOFailed        = "io_failed"
	StatusConfigFailed    = "config_failed"
)

const (
	ErrCodeIOFailed        = "io_failed"
	ErrCodeShapeInvalid    = "shape_invalid"
	ErrCodeDuplicateNumber = "duplicate_number"
	ErrCodeConfigInvalid   = "config_invalid"
)

// MergeReport 是对外稳定输出（stdout JSON）的结构。
type MergeReport struct {
	Root     string `json:"root"`
	ListsDir string `json:"lists_dir"`
	OutFile  string `json:"out_file"`
	Check    bool   `json:"check"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Status    string `json:"status"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`

	Summary MergeSummary `json:"summary"`

	SkippedFiles []SkippedFile    `json:"skipped_files"`
	Invalid      []ShapeIssue     `json:"invalid"`
	Duplicates   []DuplicateIssue `json:"duplicates"`
}

type MergeSummary struct {
	Files        int `json:"files"`
	SkippedFiles int `json:"skipped_files"`
	Records      int `json:"records"`
	Invalid      int `json:"invalid"`
	Duplicates   int `json:"duplicates"`
	Written      int `json:"written"`
}

// SkippedFile 记录“解析失败被跳过”的输入文件。
// 跳过不算 run 失败，但必须出现在报告里，避免条目被静默丢掉。
type SkippedFile struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// ShapeIssue 是形状校验失败条目的报告项（Missing 为该条目的全部缺失字段）。
type ShapeIssue struct {
	Number  string   `json:"number"`
	Missing []string `json:"missing"`
}

// DuplicateIssue 是 number 重复的报告项（Count 为该值的总出现次数）。
type DuplicateIssue struct {
	Number string `json:"number"`
	Count  int    `json:"count"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) summary 的 skipped_files/invalid/duplicates 由对应切片计算得出
//
// 注意：issue 切片不排序——报告顺序本身是契约（形状问题按合并序列顺序，
// 重复项按第二次出现的先后），Finalize 不得打乱。
func (r *MergeReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	r.Summary.SkippedFiles = len(r.SkippedFiles)
	r.Summary.Invalid = len(r.Invalid)
	r.Summary.Duplicates = len(r.Duplicates)
}

// MarshalJSON 仅用于集中约束输出的稳定性（避免未来不小心引入非确定字段）。
// 当前只是透传 encoding/json 的默认行为。
func (r MergeReport) MarshalJSON() ([]byte, error) {
	type Alias MergeReport
	return json.Marshal(Alias(r))
}
