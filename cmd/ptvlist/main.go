package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/app/run"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/config"
	"github.com/ahmed-imraan-ai/ptv-channel-list/internal/domain"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "merge":
		if code := mergeCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func mergeCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printMergeUsage()
			return 0
		}
	}

	ma, err := parseMergeArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printMergeUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Path:     ma.Path,
		Out:      ma.Out,
		OutSet:   ma.OutSet,
		Check:    ma.Check,
		CheckSet: ma.CheckSet,
	})
	if err != nil {
		emitReport(reportForConfigError(cwd, ma, err))
		return 1
	}

	rr := run.Execute(eff)
	emitReport(rr)
	if rr.Status == domain.StatusOK {
		return 0
	}
	return 1
}

type mergeArgs struct {
	Path string

	Out    string
	OutSet bool

	Check    bool
	CheckSet bool
}

func parseMergeArgs(args []string) (mergeArgs, error) {
	ma := mergeArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--out":
			if i+1 >= len(args) {
				return mergeArgs{}, fmt.Errorf("--out 需要一个值")
			}
			i++
			ma.Out = args[i]
			ma.OutSet = true
		case strings.HasPrefix(a, "--out="):
			ma.Out = strings.TrimPrefix(a, "--out=")
			ma.OutSet = true
		case a == "--check":
			ma.Check = true
			ma.CheckSet = true
		case strings.HasPrefix(a, "--check="):
			v := strings.TrimPrefix(a, "--check=")
			switch v {
			case "true":
				ma.Check = true
			case "false":
				ma.Check = false
			default:
				return mergeArgs{}, fmt.Errorf("--check 只能是 true 或 false，实际是 %q", v)
			}
			ma.CheckSet = true
		case strings.HasPrefix(a, "-"):
			return mergeArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if ma.Path != "" {
				return mergeArgs{}, fmt.Errorf("重复的 path：%q 与 %q", ma.Path, a)
			}
			ma.Path = a
		}
	}

	if ma.OutSet && strings.TrimSpace(ma.Out) == "" {
		return mergeArgs{}, fmt.Errorf("--out 不能为空")
	}

	return ma, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  ptvlist merge [path] [--out 文件] [--check[=true|false]]

命令：
  merge    合并 <path>/lists 下的频道清单为单个 JSON 产物

使用 "ptvlist merge --help" 查看详细说明。
`)
}

func printMergeUsage() {
	fmt.Fprint(os.Stdout, `用法：
  ptvlist merge [path] [--out 文件] [--check[=true|false]]

参数：
  path        项目根目录（缺省为当前目录）；清单固定读 <path>/lists，
              可在 <path>/ptvlist.json 里用 lists_dir 覆盖
  --out       输出文件（缺省 channels.json，相对 path 解析）
  --check     只校验不写出；支持 --check=false 覆盖配置中的 check=true
  -h, --help  显示帮助

校验不通过（缺字段或 number 重复）时不写任何输出，退出码为 1。
`)
}

// emitReport 按 stdout 是否为 TTY 决定呈现方式。
//
// 契约（与测试锁定）：stdout 非 TTY 时，stdout 必须且仅输出一个 MergeReport JSON，
// 摘要与问题列表走 stderr。
func emitReport(rr domain.MergeReport) {
	if isTTY(os.Stdout) {
		emitHuman(rr)
		return
	}

	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rr)
	emitSummaryLine(os.Stderr, rr)
}

func emitHuman(rr domain.MergeReport) {
	for _, sf := range rr.SkippedFiles {
		fmt.Fprintf(os.Stderr, "警告：已跳过 %s（%s）\n", sf.File, sf.Reason)
	}

	switch rr.Status {
	case domain.StatusOK:
		if rr.Check {
			fmt.Fprintf(os.Stdout, "校验通过：%d 个条目（check 模式，未写出）\n", rr.Summary.Records)
			return
		}
		fmt.Fprintf(os.Stdout, "合并完成：%d 个条目已写入 %s\n", rr.Summary.Written, rr.OutFile)

	case domain.StatusShapeFailed:
		fmt.Fprintf(os.Stderr, "形状校验失败：%d 个条目缺少必填字段（未写出输出）\n", len(rr.Invalid))
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", "number", "missing")
		for _, it := range rr.Invalid {
			fmt.Fprintf(os.Stderr, "  %-14s %s\n", numberOrUnknown(it.Number), strings.Join(it.Missing, ", "))
		}

	case domain.StatusDuplicateFailed:
		fmt.Fprintf(os.Stderr, "唯一性校验失败：%d 个 number 值重复（未写出输出）\n", len(rr.Duplicates))
		fmt.Fprintf(os.Stderr, "  %-14s %s\n", "number", "count")
		for _, it := range rr.Duplicates {
			fmt.Fprintf(os.Stderr, "  %-14s %d\n", numberOrUnknown(it.Number), it.Count)
		}

	default:
		fmt.Fprintf(os.Stderr, "%s：%s\n", rr.ErrorCode, rr.ErrorMsg)
	}
}

func emitSummaryLine(w *os.File, rr domain.MergeReport) {
	fmt.Fprintf(w, "完成：status=%s files=%d skipped=%d records=%d invalid=%d duplicates=%d written=%d\n",
		rr.Status,
		rr.Summary.Files, rr.Summary.SkippedFiles, rr.Summary.Records,
		rr.Summary.Invalid, rr.Summary.Duplicates, rr.Summary.Written,
	)
}

func numberOrUnknown(n string) string {
	if n == "" {
		return "<unknown>"
	}
	return n
}

func reportForConfigError(cwd string, ma mergeArgs, err error) domain.MergeReport {
	root := ma.Path
	if root == "" {
		root = cwd
	}
	now := time.Now().UTC()
	rr := domain.MergeReport{
		Root:       root,
		Check:      ma.CheckSet && ma.Check,
		StartedAt:  now,
		FinishedAt: now,
		Status:     domain.StatusConfigFailed,
		ErrorCode:  config.Code(err),
		ErrorMsg:   err.Error(),

		SkippedFiles: []domain.SkippedFile{},
		Invalid:      []domain.ShapeIssue{},
		Duplicates:   []domain.DuplicateIssue{},
	}
	rr.Finalize()
	return rr
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
