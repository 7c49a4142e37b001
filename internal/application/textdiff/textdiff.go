// Package textdiff 提供面向人工阅读的逐行差异比较。
//
// 算法是贪心的单行前瞻，不保证最小编辑距离：单行的插入、删除、替换能正确对齐，
// 多行块移动会产生比最优更长的结果。
package textdiff

import (
	"copystudio-api/internal/application/textutil"
	"copystudio-api/internal/domain/entity"
)

// DiffStats 各类型行数
type DiffStats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Changed 是否存在差异
func (s DiffStats) Changed() bool {
	return s.Added > 0 || s.Removed > 0
}

// Lines 比较两段文本
func Lines(baseline, current string) []entity.DiffLine {
	return LinesOf(textutil.SplitLines(baseline), textutil.SplitLines(current))
}

// LinesOf 比较两个已拆分的行序列
func LinesOf(a, b []string) []entity.DiffLine {
	out := make([]entity.DiffLine, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, line(entity.DiffLineUnchanged, a[i]))
			i++
			j++
		case j+1 < len(b) && b[j+1] == a[i]:
			out = append(out, line(entity.DiffLineAdded, b[j]))
			j++
		case i+1 < len(a) && a[i+1] == b[j]:
			out = append(out, line(entity.DiffLineRemoved, a[i]))
			i++
		default:
			out = append(out, line(entity.DiffLineRemoved, a[i]), line(entity.DiffLineAdded, b[j]))
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, line(entity.DiffLineRemoved, a[i]))
	}
	for ; j < len(b); j++ {
		out = append(out, line(entity.DiffLineAdded, b[j]))
	}
	return out
}

// Summarize 统计差异行
func Summarize(lines []entity.DiffLine) DiffStats {
	var s DiffStats
	for _, l := range lines {
		switch l.Type {
		case entity.DiffLineAdded:
			s.Added++
		case entity.DiffLineRemoved:
			s.Removed++
		case entity.DiffLineUnchanged:
			s.Unchanged++
		}
	}
	return s
}

// Baseline 取回基线行序列（unchanged + removed）
func Baseline(lines []entity.DiffLine) []string {
	return pick(lines, entity.DiffLineRemoved)
}

// Current 取回当前行序列（unchanged + added）
func Current(lines []entity.DiffLine) []string {
	return pick(lines, entity.DiffLineAdded)
}

func pick(lines []entity.DiffLine, side entity.DiffLineType) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Type == entity.DiffLineUnchanged || l.Type == side {
			out = append(out, l.Text)
		}
	}
	return out
}

func line(t entity.DiffLineType, text string) entity.DiffLine {
	return entity.DiffLine{Type: t, Text: text}
}
