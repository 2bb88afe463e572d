package recorder

import (
	"ghost-server/internal/domain"
)

// Recorder пишет позу отслеживаемого объекта на каждом фиксированном шаге.
// Не потокобезопасен: вызывается только из игрового цикла.
type Recorder struct {
	tracked   domain.Transform
	buffer    domain.Sequence
	startTime float64
	armed     bool
}

func New() *Recorder {
	return &Recorder{}
}

// Start очищает буфер и начинает запись. Повторный вызов перезапускает запись.
// Первый кадр (t = 0) снимается сразу, не дожидаясь фиксированного шага.
func (r *Recorder) Start(tracked domain.Transform, now float64) {
	// Новый слайс, а не buffer[:0]: прошлый результат мог уйти наружу
	r.buffer = make(domain.Sequence, 0, 256)
	r.tracked = tracked
	r.startTime = now
	r.armed = true

	if tracked != nil {
		r.buffer = append(r.buffer, domain.NewFrame(0, tracked.Position(), tracked.Rotation()))
	}
}

// Tick добавляет кадр. Без записи или без цели - ничего не делает.
func (r *Recorder) Tick(now float64) {
	if !r.armed || r.tracked == nil {
		return
	}
	elapsed := float32(now - r.startTime)
	r.buffer = append(r.buffer, domain.NewFrame(elapsed, r.tracked.Position(), r.tracked.Rotation()))
}

// StopAndFinalize останавливает запись и отдает накопленную ленту.
// Если запись не шла, возвращает (nil, false).
func (r *Recorder) StopAndFinalize() (domain.Sequence, bool) {
	if !r.armed {
		return nil, false
	}
	seq := r.buffer
	if seq == nil {
		seq = domain.Sequence{}
	}
	r.reset()
	return seq, true
}

// Discard останавливает запись без результата.
func (r *Recorder) Discard() {
	r.reset()
}

func (r *Recorder) reset() {
	r.armed = false
	r.buffer = nil
	r.tracked = nil
}

func (r *Recorder) IsArmed() bool {
	return r.armed
}

// Len - сколько кадров уже записано
func (r *Recorder) Len() int {
	return len(r.buffer)
}
