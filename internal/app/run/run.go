package run

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/config"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/domain"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/infra/fsx"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/loader"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/validate"
)

// Execute 执行一次合并（load → shape → unique → write），返回对外稳定的 MergeReport。
//
// 状态机：Load → Shape → {中止 | Unique → {中止 | Write → Done}}。
// 形状校验失败时不再做唯一性检查；任何中止都不写输出文件，
// 已存在的旧产物保持原样。没有重试：数据修好后整个 run 重跑。
//
// 该函数不打印、不退出进程；所有结果都进报告，由 CLI 决定呈现方式。
func Execute(eff config.EffectiveConfig) domain.MergeReport {
	rr := domain.MergeReport{
		Root:      eff.Root,
		ListsDir:  eff.ListsDir,
		OutFile:   eff.OutFile,
		Check:     eff.Check,
		StartedAt: time.Now().UTC(),
		Status:    domain.StatusOK,

		SkippedFiles: []domain.SkippedFile{},
		Invalid:      []domain.ShapeIssue{},
		Duplicates:   []domain.DuplicateIssue{},
	}

	records, skipped, loaded, err := loader.Load(eff.ListsDir)
	if err != nil {
		rr.Status = domain.StatusIOFailed
		rr.ErrorCode = domain.ErrCodeIOFailed
		rr.ErrorMsg = fmt.Sprintf("读取清单目录失败：%v", err)
		return finish(rr)
	}
	rr.SkippedFiles = append(rr.SkippedFiles, skipped...)
	rr.Summary.Files = loaded
	rr.Summary.Records = len(records)

	channels, issues := validate.Shape(records)
	if len(issues) > 0 {
		rr.Invalid = issues
		rr.Status = domain.StatusShapeFailed
		rr.ErrorCode = domain.ErrCodeShapeInvalid
		rr.ErrorMsg = fmt.Sprintf("%d 个条目缺少必填字段", len(issues))
		return finish(rr)
	}

	dups := validate.Unique(channels)
	if len(dups) > 0 {
		rr.Duplicates = dups
		rr.Status = domain.StatusDuplicateFailed
		rr.ErrorCode = domain.ErrCodeDuplicateNumber
		rr.ErrorMsg = fmt.Sprintf("%d 个 number 值重复", len(dups))
		return finish(rr)
	}

	// check 模式：只校验，不落盘（对应 CLI --check）。
	if eff.Check {
		return finish(rr)
	}

	// 回写原始条目而非类型化 Channel：额外键必须原样保留。
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		rr.Status = domain.StatusIOFailed
		rr.ErrorCode = domain.ErrCodeIOFailed
		rr.ErrorMsg = fmt.Sprintf("序列化失败：%v", err)
		return finish(rr)
	}
	b = append(b, '\n')

	if err := fsx.WriteFileAtomicReplace(filepath.Dir(eff.OutFile), filepath.Base(eff.OutFile), b); err != nil {
		rr.Status = domain.StatusIOFailed
		rr.ErrorCode = domain.ErrCodeIOFailed
		rr.ErrorMsg = fmt.Sprintf("写入输出文件失败：%v", err)
		return finish(rr)
	}

	rr.Summary.Written = len(records)
	return finish(rr)
}

func finish(rr domain.MergeReport) domain.MergeReport {
	rr.FinishedAt = time.Now().UTC()
	rr.Finalize()
	return rr
}
