package repository

import (
	"encoding/json"
	"errors"
	"simts_backend/internal/model"
	"simts_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestAddCaseRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	cases := NewCaseRepository(db)

	col := &model.Collection{Name: "Unidad 1"}
	if err := collections.Create(col); err != nil {
		t.Fatalf("create collection: %v", err)
	}
	c, _ := cases.Save(json.RawMessage(`{"title":"caso"}`))

	if err := collections.AddCase(col.ID, c.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := collections.AddCase(col.ID, c.ID)
	if !errors.Is(err, util.ErrCaseAlreadyInCollection) {
		t.Errorf("second add = %v, want ErrCaseAlreadyInCollection", err)
	}
}

// 绕过 AddCase 的存在性检查直接写同一对成员，
// 唯一索引违例必须被翻译成 gorm.ErrDuplicatedKey 才能触发兜底分支。
func TestDuplicateMemberInsertTranslatesToSentinel(t *testing.T) {
	db := newTestDB(t)

	first := &model.CollectionCase{CollectionID: 1, CaseID: 2, AddedAt: time.Now().UTC()}
	if err := db.Create(first).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	second := &model.CollectionCase{CollectionID: 1, CaseID: 2, AddedAt: time.Now().UTC()}
	err := db.Create(second).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate insert err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestRemoveCaseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	cases := NewCaseRepository(db)

	col := &model.Collection{Name: "Unidad 2"}
	collections.Create(col)
	c, _ := cases.Save(json.RawMessage(`{"title":"caso"}`))
	collections.AddCase(col.ID, c.ID)

	removed, err := collections.RemoveCase(col.ID, c.ID)
	if err != nil || !removed {
		t.Fatalf("first remove = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = collections.RemoveCase(col.ID, c.ID)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if removed {
		t.Error("second remove reported a change")
	}
}

func TestListCountsMembers(t *testing.T) {
	db := newTestDB(t)
	collections := NewCollectionRepository(db)
	cases := NewCaseRepository(db)

	col := &model.Collection{Name: "Unidad 3"}
	collections.Create(col)
	empty := &model.Collection{Name: "Vacía"}
	collections.Create(empty)

	for i := 0; i < 2; i++ {
		c, _ := cases.Save(json.RawMessage(`{"title":"caso"}`))
		collections.AddCase(col.ID, c.ID)
	}

	rows, err := collections.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	counts := map[uint]int64{}
	for _, row := range rows {
		counts[row.ID] = row.CaseCount
	}
	if counts[col.ID] != 2 {
		t.Errorf("member count = %d, want 2", counts[col.ID])
	}
	if counts[empty.ID] != 0 {
		t.Errorf("empty collection count = %d, want 0", counts[empty.ID])
	}
}
