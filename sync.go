package chipbook

import (
	"context"
	"log"
	"time"
)

// Options set the cadence of the sync loop. Zero values get defaults.
type Options struct {
	// PollInterval is how often the remote store is checked for changes.
	PollInterval time.Duration
	// PushCooldown suspends pull-merges for this long after a local change,
	// so a stale remote read cannot interleave with books being written.
	PushCooldown time.Duration
	// DebounceWindow is the quiet time after the last local change before
	// it is pushed, batching a burst of buy-ins into one save.
	DebounceWindow time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 30 * time.Second
	}
	if o.PushCooldown <= 0 {
		o.PushCooldown = 10 * time.Second
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 2 * time.Second
	}
	return o
}

// Syncer keeps a ledger and a store converging: it polls the store, merges
// what is new, and pushes local changes after a debounce. All state lives in
// the Run goroutine; MarkDirty and Sync are the only cross-goroutine doors.
type Syncer struct {
	store  Store
	ledger *Ledger
	opts   Options

	dirty   chan struct{}
	syncReq chan chan error

	// lastSeen is the hash of the newest snapshot known to match the
	// remote, whether we pushed it or pulled it. Pushing or merging the
	// same content again is skipped.
	lastSeen    string
	pending     bool
	localChange time.Time
}

// NewSyncer builds a syncer for the ledger against the store.
func NewSyncer(store Store, ledger *Ledger, opts Options) *Syncer {
	return &Syncer{
		store:   store,
		ledger:  ledger,
		opts:    opts.withDefaults(),
		dirty:   make(chan struct{}, 1),
		syncReq: make(chan chan error, 1),
	}
}

// MarkDirty tells the syncer the ledger changed. It never blocks: a signal
// already queued covers this one too.
func (s *Syncer) MarkDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Sync forces a full pull-merge-push round trip and waits for its outcome.
func (s *Syncer) Sync(ctx context.Context) error {
	errc := make(chan error, 1)
	select {
	case s.syncReq <- errc:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run drives the loop until the context ends. A pending local change is
// pushed on the way out, best effort.
func (s *Syncer) Run(ctx context.Context) error {
	// Converge with the remote before serving the cadence.
	if err := s.pull(ctx); err != nil {
		log.Printf("sync: initial pull failed: %v", err)
	}

	poll := time.NewTicker(s.opts.PollInterval)
	defer poll.Stop()
	debounce := time.NewTimer(time.Hour)
	if !debounce.Stop() {
		<-debounce.C
	}

	resetDebounce := func() {
		if !debounce.Stop() {
			select {
			case <-debounce.C:
			default:
			}
		}
		debounce.Reset(s.opts.DebounceWindow)
	}

	for {
		select {
		case <-ctx.Done():
			if s.pending {
				flush, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := s.push(flush); err != nil {
					log.Printf("sync: final push failed: %v", err)
				}
				cancel()
			}
			return ctx.Err()

		case <-poll.C:
			if time.Since(s.localChange) < s.opts.PushCooldown {
				// Books just changed here, let the push win first.
				continue
			}
			if err := s.pull(ctx); err != nil {
				log.Printf("sync: pull failed: %v", err)
			}

		case <-s.dirty:
			s.pending = true
			s.localChange = time.Now()
			resetDebounce()

		case <-debounce.C:
			if err := s.push(ctx); err != nil {
				log.Printf("sync: push failed: %v", err)
				// keep pending, the next poll tick will not clear it and
				// a later Sync or debounce retries
				resetDebounce()
			}

		case errc := <-s.syncReq:
			err := s.pull(ctx)
			if perr := s.push(ctx); err == nil {
				err = perr
			}
			errc <- err
		}
	}
}

// pull loads the remote snapshot and merges anything newer into the ledger.
// When the merge leaves the books richer than the remote the result is
// scheduled for push, so both sides converge.
func (s *Syncer) pull(ctx context.Context) error {
	remote, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	remoteHash := remote.ContentHash()
	if remoteHash == s.lastSeen {
		return nil
	}
	if MergeSnapshot(s.ledger, remote) {
		log.Printf("sync: merged remote snapshot %.8s", remoteHash)
	}
	s.lastSeen = remoteHash
	if s.ledger.Snapshot().ContentHash() != remoteHash {
		s.pending = true
		s.localChange = time.Now()
	}
	return nil
}

// push saves the books to the store unless the remote already holds this
// exact content.
func (s *Syncer) push(ctx context.Context) error {
	snap := s.ledger.Snapshot()
	hash := snap.ContentHash()
	if hash == s.lastSeen {
		s.pending = false
		return nil
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return err
	}
	log.Printf("sync: pushed snapshot %.8s", hash)
	s.lastSeen = hash
	s.pending = false
	return nil
}

// MergeSnapshot folds a remote snapshot into the ledger. Players reconcile
// by name with the local record winning. Sessions merge by id at session
// granularity: the side with the newer updatedAt supplies the session and
// all its player sessions, there is no per-field mixing. Local-only sessions
// survive untouched. Reports whether the ledger changed.
//
// There are no tombstones: a session deleted on one side comes back on the
// next merge if the other side still has it.
func MergeSnapshot(l *Ledger, remote *Snapshot) bool {
	playersBefore := len(l.players)
	merged, remap := ReconcilePlayers(l.players, remote.Players)
	l.players = merged
	changed := len(merged) != playersBefore

	remotePS := make(map[string][]PlayerSession)
	for _, ps := range remote.PlayerSessions {
		if id, ok := remap[ps.playerID]; ok {
			ps.playerID = id
		}
		remotePS[ps.sessionID] = append(remotePS[ps.sessionID], ps.clone())
	}

	for _, rs := range remote.Sessions {
		i, known := l.sessionIdx[rs.id]
		if known && !rs.updatedAt.After(l.sessions[i].updatedAt) {
			continue
		}
		if known {
			l.sessions[i] = rs
			kept := l.playerSessions[:0]
			for _, ps := range l.playerSessions {
				if ps.sessionID == rs.id {
					continue
				}
				kept = append(kept, ps)
			}
			l.playerSessions = kept
		} else {
			l.sessions = append(l.sessions, rs)
		}
		l.playerSessions = append(l.playerSessions, remotePS[rs.id]...)
		changed = true
	}

	if changed {
		l.stableSort()
		// The active pointer must keep pointing at a live session.
		if s, ok := l.Session(l.activeSessionID); l.activeSessionID != "" && (!ok || s.isComplete) {
			l.activeSessionID = ""
		}
		l.touch()
	}
	return changed
}
