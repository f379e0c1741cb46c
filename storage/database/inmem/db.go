package inmemdb

import (
	"sync"

	"github.com/trezcool/studyplanner/core/session"
)

type (
	// DB holds tables for the lifetime of the process. Nothing is written to disk.
	DB struct {
		session *sessionTable
	}

	sessionTable struct {
		t     map[string]*session.Session
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		session: &sessionTable{t: make(map[string]*session.Session)},
	}
}
