package actions

import (
	"errors"
	"fmt"

	"ghost-server/internal/domain"
	"ghost-server/internal/engine/handlers"
)

func HandleBeginRecording(ctx handlers.Context) (handlers.Result, error) {
	ctx.Session.BeginRecording()
	return handlers.Info("Запись началась."), nil
}

func HandleEndRecording(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Session.State() != domain.StateRecording {
		return handlers.EmptyResult(), nil
	}
	if err := ctx.Session.EndRecording(); err != nil {
		// Запись при этом остановлена, теряется только файл
		return handlers.Result{}, fmt.Errorf("recording stopped but not saved: %w", err)
	}
	return handlers.Info("Запись остановлена и сохранена."), nil
}

func HandleBeginReplay(ctx handlers.Context) (handlers.Result, error) {
	if err := ctx.Session.BeginReplay(); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSavedData):
			return handlers.Result{Msg: "Сохраненной записи нет.", MsgType: "ERROR"}, err
		case errors.Is(err, domain.ErrEmptySequence):
			return handlers.Result{Msg: "Запись пуста.", MsgType: "ERROR"}, err
		}
		return handlers.Result{}, err
	}
	return handlers.Info("Реплей запущен."), nil
}

func HandleEndReplay(ctx handlers.Context) (handlers.Result, error) {
	if ctx.Session.State() != domain.StateReplaying {
		return handlers.EmptyResult(), nil
	}
	ctx.Session.EndReplay()
	return handlers.Info("Реплей остановлен."), nil
}

// HandleStatus ничего не меняет: хост отправит свежий снимок после любой команды
func HandleStatus(_ handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), nil
}
