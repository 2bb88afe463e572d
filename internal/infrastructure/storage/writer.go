package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"ghost-server/internal/domain"
	"ghost-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `GHOST`
	FrameSize   int64  = 32 // 8 x float32
)

// GhostFileHeader - точное представление заголовка файла.
// Magic хранится как строка с префиксом длины (1 байт + "GHOST"),
// но пишется фиксированным массивом, поэтому binary.Write пишет заголовок целиком.
type GhostFileHeader struct {
	Magic      [6]byte // 6 байт
	FrameCount int32   // 4 байта
}

// FrameRecord - одна запись кадра на диске, 32 байта.
type FrameRecord struct {
	Timestamp        float32
	PosX, PosY, PosZ float32
	RotX, RotY, RotZ float32
	RotW             float32
}

func magicBytes() [6]byte {
	var m [6]byte
	m[0] = byte(len(MagicHeader))
	copy(m[1:], MagicHeader)
	return m
}

func toRecord(f domain.Frame) FrameRecord {
	return FrameRecord{
		Timestamp: f.Timestamp,
		PosX:      f.Position.X(), PosY: f.Position.Y(), PosZ: f.Position.Z(),
		RotX: f.Rotation.X(), RotY: f.Rotation.Y(), RotZ: f.Rotation.Z(),
		RotW: f.Rotation.W,
	}
}

// GhostStore владеет единственным файлом сохранения.
// Каждое сохранение перезаписывает файл целиком.
type GhostStore struct {
	Path string
}

func NewGhostStore(dir string) *GhostStore {
	// Создаем папку если нет. Ошибку не возвращаем: Save все равно вернет ErrIO,
	// но узнать о проблеме лучше при старте.
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "ghost_store",
			"dir":       dir,
		}).WithError(err).Error("Save dir is not usable")
	}
	return &GhostStore{Path: filepath.Join(dir, domain.SaveFileName)}
}

// Exists сообщает, есть ли сохраненная запись.
func (s *GhostStore) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && !info.IsDir()
}

func (s *GhostStore) Save(seq domain.Sequence) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", domain.ErrIO, s.Path, err)
	}

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, seq); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %w", domain.ErrIO, s.Path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flush %s: %w", domain.ErrIO, s.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", domain.ErrIO, s.Path, err)
	}
	return nil
}

func writeBinary(w io.Writer, seq domain.Sequence) error {
	if len(seq) > math.MaxInt32 {
		return fmt.Errorf("too many frames: %d", len(seq))
	}

	// 1. Заголовок одной командой
	header := GhostFileHeader{
		Magic:      magicBytes(),
		FrameCount: int32(len(seq)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if len(seq) == 0 {
		return nil
	}

	// 2. Кадры. Слайс структур фиксированного размера binary.Write тоже пишет целиком.
	records := make([]FrameRecord, len(seq))
	for i, fr := range seq {
		records[i] = toRecord(fr)
	}
	if err := binary.Write(w, binary.LittleEndian, records); err != nil {
		return fmt.Errorf("failed to write frames: %w", err)
	}

	return nil
}
