package domain

import "errors"

// Ошибки подсистемы призраков. Оборачиваются через fmt.Errorf("%w"),
// проверяются через errors.Is.
var (
	// ErrIO - файл не читается / не пишется.
	ErrIO = errors.New("ghost file i/o error")
	// ErrFormat - структура файла нарушена (счетчик кадров не сходится с размером и т.п.)
	ErrFormat = errors.New("invalid ghost file format")
	// ErrEmptySequence - попытка запустить реплей без кадров.
	ErrEmptySequence = errors.New("ghost sequence is empty")
	// ErrNoSavedData - реплей запрошен, а сохранения нет.
	ErrNoSavedData = errors.New("no saved ghost data")
)
