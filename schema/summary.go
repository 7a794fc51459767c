package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	SummaryCollection = "summaries"

	// DefaultSummaryBatchSize is part of the storage contract, readers and
	// writers must agree on it.
	DefaultSummaryBatchSize = 1000
)

// SummaryRecord aggregates one second of replayed playback.
type SummaryRecord struct {
	StartTime float64 `json:"startTime" bson:"startTime" parquet:"start_time,snappy" msgpack:"start_time"`
	EndTime   float64 `json:"endTime" bson:"endTime" parquet:"end_time,snappy" msgpack:"end_time"`
	Score     float64 `json:"score" bson:"score" parquet:"score,snappy" msgpack:"score"`
	People    float64 `json:"people" bson:"people" parquet:"people,snappy" msgpack:"people"`
	Count     int     `json:"count" bson:"count" parquet:"count,snappy" msgpack:"count"`
}

// UnmarshalJSON accepts start and end times both as numbers and as the
// fixed point strings older summary files carry.
func (r *SummaryRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		StartTime json.RawMessage `json:"startTime"`
		EndTime   json.RawMessage `json:"endTime"`
		Score     float64         `json:"score"`
		People    float64         `json:"people"`
		Count     int             `json:"count"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	start, err := flexibleSeconds(raw.StartTime)
	if err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	end, err := flexibleSeconds(raw.EndTime)
	if err != nil {
		return fmt.Errorf("endTime: %w", err)
	}

	*r = SummaryRecord{
		StartTime: start,
		EndTime:   end,
		Score:     raw.Score,
		People:    raw.People,
		Count:     raw.Count,
	}
	return nil
}

func flexibleSeconds(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

// SummaryBatch is one persisted chunk of a summary.
type SummaryBatch struct {
	Key       string          `json:"id" bson:"_id"`
	Hierarchy string          `json:"hierarchy" bson:"hierarchy"`
	Offset    int             `json:"offset" bson:"offset"`
	Rows      []SummaryRecord `json:"rows" bson:"rows"`
}

// SummaryBatchKey returns the document key of the batch starting at offset.
func SummaryBatchKey(hierarchy string, offset int) string {
	return fmt.Sprintf("%s-%05d", hierarchy, offset)
}
