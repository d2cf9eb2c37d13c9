package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sort"
	"sync"
	"time"
)

type RoomRepo struct {
	mtx   sync.RWMutex
	rooms map[int64]*model.Room
}

func NewRoomRepository() *RoomRepo {
	return &RoomRepo{rooms: make(map[int64]*model.Room)}
}

var _ repository.RoomRepository = (*RoomRepo)(nil)

func (r *RoomRepo) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	cp := *room
	if room.Forced != nil {
		f := *room.Forced
		cp.Forced = &f
	}
	return &cp, nil
}

func (r *RoomRepo) SetActive(_ context.Context, id int64, title string, active bool) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		room = &model.Room{ID: id}
		r.rooms[id] = room
	}
	if title != "" {
		room.Title = title
	}
	room.Active = active
	room.UpdatedAt = time.Now()
	return nil
}

func (r *RoomRepo) ActiveRooms(_ context.Context) ([]int64, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var ids []int64
	for id, room := range r.rooms {
		if room.Active {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *RoomRepo) SetForced(_ context.Context, id int64, forced *model.ForcedOutcome) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return model.ErrRoomNotFound
	}
	if forced == nil {
		room.Forced = nil
		return nil
	}
	f := *forced
	room.Forced = &f
	return nil
}

func (r *RoomRepo) TakeForced(_ context.Context, id int64) (*model.ForcedOutcome, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	f := room.Forced
	room.Forced = nil
	return f, nil
}
