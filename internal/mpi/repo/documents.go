package repo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Cam55-baseball/hammer-ai-huddle-sub008/internal/mpi/model"
)

func nonNilBlocks(blocks []model.DrillBlock) []model.DrillBlock {
	if blocks == nil {
		return []model.DrillBlock{}
	}
	return blocks
}

// marshalNullable encodes v as JSON, keeping nil as a NULL column.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decodeSessionDocs(s *model.Session, blocksJson, fatigueJson, indexesJson []byte) error {
	if len(blocksJson) > 0 {
		if err := json.Unmarshal(blocksJson, &s.DrillBlocks); err != nil {
			return fmt.Errorf("unmarshal drill blocks of %s: %w", s.ID, err)
		}
	}
	if len(fatigueJson) > 0 {
		s.Fatigue = &model.FatigueState{}
		if err := json.Unmarshal(fatigueJson, s.Fatigue); err != nil {
			return fmt.Errorf("unmarshal fatigue of %s: %w", s.ID, err)
		}
	}
	if len(indexesJson) > 0 {
		s.Computed.CompositeIndexes = &model.CompositeIndexes{}
		if err := json.Unmarshal(indexesJson, s.Computed.CompositeIndexes); err != nil {
			return fmt.Errorf("unmarshal composite indexes of %s: %w", s.ID, err)
		}
	}
	return nil
}

func createdAtOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
