package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"ghost-server/internal/domain"

	"github.com/go-gl/mathgl/mgl32"
)

// Больше этого не аллоцируем заранее, если размер потока неизвестен
const maxPrealloc = 4096

func (s *GhostStore) Load() (domain.Sequence, error) {
	return LoadFile(s.Path)
}

// LoadFile читает файл призрака по произвольному пути.
func LoadFile(path string) (domain.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoSavedData, path)
		}
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrIO, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", domain.ErrIO, path, err)
	}

	return readBinary(f, info.Size())
}

// readBinary декодирует ленту кадров. size - полный размер потока в байтах,
// или -1, если он неизвестен (тогда счетчик кадров не сверяется заранее).
func readBinary(r io.Reader, size int64) (domain.Sequence, error) {
	br := bufio.NewReader(r)

	// 1. Magic: строка с префиксом длины
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read magic: %w", domain.ErrIO, err)
	}
	if n != uint64(len(MagicHeader)) {
		// Не наш файл - это не ошибка, просто пустая запись
		return domain.Sequence{}, nil
	}
	magic := make([]byte, n)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: failed to read magic: %w", domain.ErrIO, err)
	}
	if string(magic) != MagicHeader {
		return domain.Sequence{}, nil
	}

	// 2. Счетчик кадров
	var count int32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: failed to read frame count: %w", domain.ErrIO, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", domain.ErrFormat, count)
	}

	capacity := int(count)
	if size >= 0 {
		headerLen := int64(uvarintSize(n)) + int64(n) + 4
		remaining := size - headerLen
		if int64(count)*FrameSize > remaining {
			return nil, fmt.Errorf("%w: declared %d frames, only %d bytes left", domain.ErrFormat, count, remaining)
		}
	} else if capacity > maxPrealloc {
		capacity = maxPrealloc
	}

	// 3. Кадры
	seq := make(domain.Sequence, 0, capacity)
	for i := 0; i < int(count); i++ {
		var rec FrameRecord
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: truncated at frame %d of %d: %w", domain.ErrFormat, i, count, err)
			}
			return nil, fmt.Errorf("%w: frame %d: %w", domain.ErrIO, i, err)
		}
		seq = append(seq, rec.toFrame())
	}

	return seq, nil
}

func (r FrameRecord) toFrame() domain.Frame {
	return domain.NewFrame(
		r.Timestamp,
		mgl32.Vec3{r.PosX, r.PosY, r.PosZ},
		mgl32.Quat{W: r.RotW, V: mgl32.Vec3{r.RotX, r.RotY, r.RotZ}},
	)
}

func uvarintSize(v uint64) int {
	var buf [binary.MaxVarintLen64]byte
	return binary.PutUvarint(buf[:], v)
}
