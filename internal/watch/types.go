package watch

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"openhours/internal/eventbus"
	"openhours/pkg/hours"
	logx "openhours/pkg/logx"
)

// Config controls the watch service.
type Config struct {
	// Tick is parsed by ParseTick.
	Tick string
	// Lookahead caps the next-transition search; zero leaves it uncapped.
	Lookahead time.Duration
}

type Service struct {
	mu sync.Mutex

	log  logx.Logger
	warn logx.Logger // rate limited, for search failures
	cfg  Config
	tick ParsedTick
	bus  eventbus.Bus

	clock hours.Clock
	sched *hours.Schedule

	loc     *time.Location
	c       *cron.Cron
	entryID cron.EntryID

	// evalSeq is handed out by beginEval; doneSeq is the newest committed.
	evalSeq uint64
	doneSeq uint64
	state   state
}

type state struct {
	known       bool
	open        bool
	since       time.Time
	next        time.Time
	nextKind    hours.Boundary
	capped      bool
	lastEval    time.Time
	lastErr     string
	ticks       uint64
	transitions uint64
}

// Snapshot is a point-in-time view of the service.
type Snapshot struct {
	Running  bool
	Tick     string
	Timezone string

	Known bool
	Open  bool
	// Since is the evaluation that first saw the current state.
	Since time.Time
	// Next is the upcoming transition; zero when the search failed.
	Next     time.Time
	NextKind string
	// Capped reports that Next is the lookahead cap, not a transition.
	Capped bool

	LastEval    time.Time
	LastError   string
	Ticks       uint64
	Transitions uint64

	NextRun time.Time
	PrevRun time.Time
}
