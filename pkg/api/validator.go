package api

import (
	"errors"
	"math"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p PosePayload) Validate() error {
	for _, v := range p.Position {
		if !isFinite(v) {
			return errors.New("position must be finite")
		}
	}
	var lenSq float64
	for _, v := range p.Rotation {
		if !isFinite(v) {
			return errors.New("rotation must be finite")
		}
		lenSq += float64(v) * float64(v)
	}
	// Нулевой кватернион разрешен (= identity), остальные должны быть примерно единичными
	if lenSq != 0 && math.Abs(lenSq-1) > 1e-3 {
		return errors.New("rotation must be a unit quaternion")
	}
	return nil
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
