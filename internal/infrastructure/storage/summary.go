package storage

import (
	"os"

	"ghost-server/internal/domain"
)

// FileSummary - краткое описание файла записи (для отладки и CLI)
type FileSummary struct {
	Path      string  `json:"path"`
	SizeBytes int64   `json:"size_bytes"`
	Frames    int     `json:"frames"`
	Duration  float32 `json:"duration"`
	Ordered   bool    `json:"ordered"`
	// Средняя частота записи, Гц
	Rate float32 `json:"rate"`
}

// Inspect читает файл и собирает сводку. Ошибки те же, что у LoadFile.
func Inspect(path string) (FileSummary, error) {
	seq, err := LoadFile(path)
	if err != nil {
		return FileSummary{}, err
	}

	sum := Summarize(seq)
	sum.Path = path
	if info, err := os.Stat(path); err == nil {
		sum.SizeBytes = info.Size()
	}
	return sum, nil
}

func Summarize(seq domain.Sequence) FileSummary {
	sum := FileSummary{
		Frames:   seq.Len(),
		Duration: seq.Duration(),
		Ordered:  seq.IsOrdered(),
	}
	if sum.Duration > 0 && sum.Frames > 1 {
		sum.Rate = float32(sum.Frames-1) / sum.Duration
	}
	return sum
}
