package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wxtools/zipcast/internal/model"
)

// FileStore is an append-only flat-file cache of zip,lat,lng lines. No
// locking and no dedup: the tool runs as a one-shot CLI with a single writer,
// and on lookup the first match wins.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Lookup scans the cache file line by line and returns the first entry whose
// ZIP field matches exactly. A missing cache file is a miss, not an error.
func (s *FileStore) Lookup(_ context.Context, zip string) (*model.ZipCoordinate, bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) != 3 || fields[0] != zip {
			continue
		}

		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, false, fmt.Errorf("malformed cache entry for %s: %w", zip, err)
		}
		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, false, fmt.Errorf("malformed cache entry for %s: %w", zip, err)
		}

		return &model.ZipCoordinate{ZipCode: zip, Lat: lat, Lng: lng}, true, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}

	return nil, false, nil
}

// Save appends one zip,lat,lng line. Entries are never rewritten.
func (s *FileStore) Save(_ context.Context, coord model.ZipCoordinate) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s,%g,%g\n", coord.ZipCode, coord.Lat, coord.Lng)
	return err
}
