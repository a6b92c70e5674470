package manifest

import (
	"sort"

	"github.com/samber/lo"
)

type ExtensionSummary struct {
	Extension string `json:"extension"`
	FileCount int    `json:"fileCount"`
	TotalSize int64  `json:"totalSize"`
}

type Summary struct {
	Algorithm  string             `json:"algorithm,omitempty"`
	FileCount  int                `json:"fileCount"`
	TotalSize  int64              `json:"totalSize"`
	Extensions []ExtensionSummary `json:"extensions"`
}

func sizeOf(r FileRecord) int64 { return r.FileSize }

// Summarize totals the records overall and per extension, ordered by
// extension.
func Summarize(records []FileRecord, algorithm string) Summary {
	groups := lo.GroupBy(records, func(r FileRecord) string {
		return r.FileExtension
	})
	exts := lo.Keys(groups)
	sort.Strings(exts)

	out := Summary{
		Algorithm:  algorithm,
		FileCount:  len(records),
		TotalSize:  lo.SumBy(records, sizeOf),
		Extensions: make([]ExtensionSummary, 0, len(exts)),
	}
	for _, e := range exts {
		out.Extensions = append(out.Extensions, ExtensionSummary{
			Extension: e,
			FileCount: len(groups[e]),
			TotalSize: lo.SumBy(groups[e], sizeOf),
		})
	}
	return out
}
