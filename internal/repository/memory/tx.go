package memory

import (
	"context"
	"sync"
)

type txKey struct{}

type journal struct {
	undo []func()
}

// TxManager - транзакции поверх репозиториев в памяти. Выполняются по одной,
// при ошибке изменения отменяются в обратном порядке
type TxManager struct {
	mtx sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*journal); ok {
		return fn(ctx)
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			j.rollback()
			panic(p)
		}
		if err != nil {
			j.rollback()
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, j))
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// onRollback - отмена изменения, сделанного внутри транзакции. Вне транзакции ничего не делает
func onRollback(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(txKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}
