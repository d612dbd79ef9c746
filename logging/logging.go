// Package logging routes the standard logger to a file in debug builds and
// silences it otherwise, so log lines never land on a terminal UI.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	FileName   = "snake.log"
	maxLogSize = 10 * 1024 * 1024
)

// Setup configures the standard logger. Without debug it discards output and
// returns a nil file. With debug it appends to dir/snake.log, rotating a file
// over 10 MiB aside first. The caller closes the returned file.
func Setup(debug bool, dir string) (*os.File, error) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil, errors.Wrap(err, "creating log directory")
	}

	path := filepath.Join(dir, FileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(dir, "snake-"+time.Now().Format("20060102-150405")+".log")
		if err := os.Rename(path, rotated); err != nil {
			log.SetOutput(io.Discard)
			return nil, errors.Wrap(err, "rotating log file")
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, errors.Wrap(err, "opening log file")
	}

	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Println("logging started")
	return file, nil
}
