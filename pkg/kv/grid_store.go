// Package kv persists the navigation grid in pebble so the server can come
// back up without rebuilding terrain from the world tiles. The grid itself
// comes from the out-of-band navmesh builder; this store is only the
// handoff point.
package kv

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"

	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/concurrent"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
)

const metaKey = "grid:meta"

func terrainKey(row int32) []byte {
	return []byte(fmt.Sprintf("grid:terrain:%06d", row))
}

type GridStore struct {
	db *pebble.DB
}

func NewGridStore(db *pebble.DB) *GridStore {
	return &GridStore{db}
}

func (s *GridStore) Close() error {
	return s.db.Close()
}

type saveRowItem struct {
	Row  int32
	Data []uint8
}

// SaveGrid write the grid header plus one zstd-compressed terrain blob per
// row, rows fanned across a worker pool.
func (s *GridStore) SaveGrid(g *grid.Grid) error {
	meta := GridMeta{
		Width:   g.Width(),
		Height:  g.Height(),
		Blocked: g.BlockedIDs(),
	}
	encoded, err := EncodeMeta(meta)
	if err != nil {
		return err
	}
	compressed, err := Compress(encoded)
	if err != nil {
		return err
	}
	if err := s.db.Set([]byte(metaKey), compressed, pebble.Sync); err != nil {
		return err
	}

	bar := progressbar.NewOptions(int(g.Height()),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]saving terrain rows to pebble db...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	terrain := g.TerrainSnapshot()
	workers := concurrent.NewWorkerPool[saveRowItem, error](4, int(g.Height()))
	for row := int32(0); row < g.Height(); row++ {
		start := row * g.Width()
		workers.AddJob(concurrent.Job[saveRowItem]{
			ID:      int(row),
			JobItem: saveRowItem{Row: row, Data: terrain[start : start+g.Width()]},
		})
	}
	workers.Close()
	workers.Start(s.saveRow)

	workers.Wait()
	for err := range workers.CollectResults() {
		bar.Add(1)
		if err != nil {
			return err
		}
	}
	fmt.Println("")
	return nil
}

func (s *GridStore) saveRow(job concurrent.Job[saveRowItem]) error {
	compressed, err := Compress(job.JobItem.Data)
	if err != nil {
		return err
	}
	return s.db.Set(terrainKey(job.JobItem.Row), compressed, pebble.NoSync)
}

// LoadGrid rebuild a grid from the store. Returns pebble.ErrNotFound when
// nothing was ever saved.
func (s *GridStore) LoadGrid() (*grid.Grid, error) {
	value, closer, err := s.db.Get([]byte(metaKey))
	if err != nil {
		return nil, err
	}
	decompressed, err := Decompress(value)
	closer.Close()
	if err != nil {
		return nil, err
	}
	meta, err := DecodeMeta(decompressed)
	if err != nil {
		return nil, err
	}

	g, err := grid.New(meta.Width, meta.Height)
	if err != nil {
		return nil, err
	}

	for row := int32(0); row < meta.Height; row++ {
		value, closer, err := s.db.Get(terrainKey(row))
		if err != nil {
			return nil, err
		}
		data, err := Decompress(value)
		closer.Close()
		if err != nil {
			return nil, err
		}
		if int32(len(data)) != meta.Width {
			return nil, fmt.Errorf("terrain row %d has %d cells, want %d", row, len(data), meta.Width)
		}
		for x := int32(0); x < meta.Width; x++ {
			if err := g.SetDynamicCost(g.NodeID(x, row), 0, data[x]); err != nil {
				return nil, err
			}
		}
	}

	for _, id := range meta.Blocked {
		if err := g.SetBlocked(id); err != nil {
			return nil, err
		}
	}
	return g, nil
}
