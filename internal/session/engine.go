// Package session wires the detectors, trackers, and gate into one engine.
// It owns the two concerns the individual packages deliberately do not:
// per-user call serialization and the alliance ratchet used for gating.
package session

// #region imports
import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/psycore/internal/alliance"
	"github.com/danielpatrickdp/psycore/internal/attachment"
	"github.com/danielpatrickdp/psycore/internal/detect"
	"github.com/danielpatrickdp/psycore/internal/gating"
	"github.com/danielpatrickdp/psycore/internal/growth"
	"github.com/danielpatrickdp/psycore/internal/metapattern"
	"github.com/danielpatrickdp/psycore/internal/store"
)

// #endregion

// #region snapshot

// Snapshot is the full result of processing one message: every detector's
// findings, the tracker readings, and the gate's verdicts. Plain and
// serializable; the response layer and persistence both consume it.
type Snapshot struct {
	UserID string `json:"user_id"`

	Distortions   []detect.Finding `json:"distortions,omitempty"`
	Defenses      []detect.Finding `json:"defenses,omitempty"`
	Beliefs       []detect.Finding `json:"beliefs,omitempty"`
	BlindSpots    []detect.Finding `json:"blind_spots,omitempty"`
	Breakthroughs []detect.Finding `json:"breakthroughs,omitempty"`

	Alliance       alliance.Measurement         `json:"alliance"`
	AllianceLevel  float64                      `json:"alliance_level"` // ratcheted level used for gating
	Attachment     attachment.Assessment        `json:"attachment"`
	GrowthMatched  []string                     `json:"growth_matched,omitempty"`
	GrowthProgress []growth.ProgressMeasurement `json:"growth_progress,omitempty"`
	MetaPatterns   []metapattern.Pattern        `json:"meta_patterns,omitempty"`

	DaysSinceStart int                             `json:"days_since_start"`
	MaxDepth       gating.Tier                     `json:"max_depth"`
	Decisions      map[gating.Tier]gating.Decision `json:"decisions"`
	Surfaced       []detect.Finding                `json:"surfaced,omitempty"`
	Intervention   string                          `json:"intervention"`
}

// #endregion

// #region engine

// Config carries the engine's optional collaborators. Both may be nil:
// a nil logger is replaced by a no-op one, a nil store keeps the engine
// purely in-memory.
type Config struct {
	Logger *zap.Logger
	Store  *store.Store
}

// Engine is the per-process facade over the whole pipeline. Calls for the
// same user are serialized through a keyed mutex; different users proceed
// in parallel.
type Engine struct {
	log *zap.Logger
	db  *store.Store

	distortion   *detect.DistortionDetector
	defense      *detect.DefenseDetector
	belief       *detect.BeliefExtractor
	blindspot    *detect.BlindSpotDetector
	breakthrough *detect.BreakthroughDetector

	alliance   *alliance.Tracker
	attachment *attachment.Classifier
	growth     *growth.Tracker
	meta       *metapattern.Analyzer
	gate       *gating.Gate

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
	peak      map[string]float64   // high-water alliance per user (ratchet)
	firstSeen map[string]time.Time // relationship start per user
	beliefLog map[string][]detect.Finding

	now func() time.Time
}

// beliefLogCap bounds the prior-finding window used for the
// recurring-belief flag.
const beliefLogCap = 20

// NewEngine builds an engine with fresh trackers.
func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:          log,
		db:           cfg.Store,
		distortion:   detect.NewDistortionDetector(),
		defense:      detect.NewDefenseDetector(),
		belief:       detect.NewBeliefExtractor(),
		blindspot:    detect.NewBlindSpotDetector(),
		breakthrough: detect.NewBreakthroughDetector(),
		alliance:     alliance.NewTracker(),
		attachment:   attachment.NewClassifier(),
		growth:       growth.NewTracker(),
		meta:         metapattern.NewAnalyzer(),
		gate:         gating.NewGate(),
		userLocks:    make(map[string]*sync.Mutex),
		peak:         make(map[string]float64),
		firstSeen:    make(map[string]time.Time),
		beliefLog:    make(map[string][]detect.Finding),
		now:          time.Now,
	}
}

// Alliance exposes the alliance tracker for read-side queries.
func (e *Engine) Alliance() *alliance.Tracker { return e.alliance }

// Attachment exposes the attachment classifier for read-side queries.
func (e *Engine) Attachment() *attachment.Classifier { return e.attachment }

// Growth exposes the growth tracker for read-side queries.
func (e *Engine) Growth() *growth.Tracker { return e.growth }

// MetaPatterns exposes the meta-pattern analyzer for read-side queries.
func (e *Engine) MetaPatterns() *metapattern.Analyzer { return e.meta }

// Gate exposes the gating engine for read-side queries.
func (e *Engine) Gate() *gating.Gate { return e.gate }

// #endregion

// #region process

// findingTiers maps each finding class to the tier it surfaces under.
// Breakthroughs ride the conscious tier: reinforcing an insight the user
// just voiced themselves needs no depth clearance beyond it.
var findingTiers = []gating.Tier{
	gating.TierConscious,
	gating.TierDefenseMechanisms,
	gating.TierCoreBeliefs,
	gating.TierBlindSpots,
}

// Process runs the full pipeline for one message and returns the snapshot.
// Total function over any string input: short text simply produces few or
// no findings.
func (e *Engine) Process(userID, text string, mctx Context) Snapshot {
	e.lockUser(userID)
	defer e.unlockUser(userID)

	now := e.now().UTC()
	userState := mctx.UserState()

	// Stateless detectors.
	snap := Snapshot{UserID: userID}
	snap.Distortions = e.distortion.DetectWithState(text, mctx.String(KeyEmotionalState))
	snap.Defenses = e.defense.Detect(text)
	snap.Beliefs = e.belief.DetectWithHistory(text, e.priorBeliefs(userID))
	snap.BlindSpots = e.blindspot.Detect(text)
	snap.Breakthroughs = e.breakthrough.Detect(text)
	e.recordBeliefs(userID, snap.Beliefs)

	// Stateful trackers.
	snap.Alliance = e.alliance.Measure(userID, text, mctx.MessageContext())
	snap.Attachment = e.attachment.Assess(userID, text)
	snap.GrowthMatched = e.growth.Identify(userID, text)
	snap.GrowthProgress = e.growth.Measure(userID, text)
	snap.MetaPatterns = e.meta.Analyze(userID, text)

	// Relationship time and the alliance ratchet.
	snap.DaysSinceStart = e.daysSinceStart(userID, now)
	level := e.ratchet(userID, snap.Alliance.Overall)
	snap.AllianceLevel = level

	// Gate every finding class.
	snap.Decisions = make(map[gating.Tier]gating.Decision, len(findingTiers))
	for _, tier := range findingTiers {
		snap.Decisions[tier] = e.gate.ShouldSurface(tier, level, snap.DaysSinceStart, userState)
	}
	snap.MaxDepth = e.gate.MaxAllowedDepth(level, snap.DaysSinceStart)
	snap.Surfaced = e.surfaced(&snap, level)
	snap.Intervention = e.gate.SuggestInterventionType(snap.Breakthroughs, level, snap.DaysSinceStart)

	e.persist(&snap, userState)

	e.log.Debug("processed message",
		zap.String("user", userID),
		zap.Float64("alliance", level),
		zap.Int("days", snap.DaysSinceStart),
		zap.String("max_depth", string(snap.MaxDepth)),
		zap.String("intervention", snap.Intervention),
		zap.Int("surfaced", len(snap.Surfaced)),
	)
	return snap
}

// surfaced collects the findings whose tier cleared the gate. Defense
// findings additionally pass the maturity filter.
func (e *Engine) surfaced(snap *Snapshot, level float64) []detect.Finding {
	var out []detect.Finding
	if snap.Decisions[gating.TierConscious].Allowed {
		out = append(out, snap.Distortions...)
		out = append(out, snap.Breakthroughs...)
	}
	if snap.Decisions[gating.TierDefenseMechanisms].Allowed {
		out = append(out, gating.FilterDefenseFindings(snap.Defenses, level)...)
	}
	if snap.Decisions[gating.TierCoreBeliefs].Allowed {
		out = append(out, snap.Beliefs...)
	}
	if snap.Decisions[gating.TierBlindSpots].Allowed {
		out = append(out, snap.BlindSpots...)
	}
	return out
}

// #endregion

// #region state-helpers

func (e *Engine) lockUser(userID string) {
	e.mu.Lock()
	lock := e.userLocks[userID]
	if lock == nil {
		lock = &sync.Mutex{}
		e.userLocks[userID] = lock
	}
	e.mu.Unlock()
	lock.Lock()
}

func (e *Engine) unlockUser(userID string) {
	e.mu.Lock()
	lock := e.userLocks[userID]
	e.mu.Unlock()
	lock.Unlock()
}

// ratchet keeps the per-user alliance high-water mark. Gating runs against
// the peak: a tier once unlocked does not re-lock when alliance dips.
func (e *Engine) ratchet(userID string, current float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if current > e.peak[userID] {
		e.peak[userID] = current
	}
	return e.peak[userID]
}

// daysSinceStart resolves the relationship start, consulting the store when
// present so restarts keep the elapsed time.
func (e *Engine) daysSinceStart(userID string, now time.Time) int {
	e.mu.Lock()
	start, ok := e.firstSeen[userID]
	e.mu.Unlock()

	if !ok {
		start = now
		if e.db != nil {
			if persisted, err := e.db.EnsureUser(userID, now); err == nil {
				start = persisted
			} else {
				e.log.Warn("ensure user", zap.String("user", userID), zap.Error(err))
			}
		}
		e.mu.Lock()
		e.firstSeen[userID] = start
		e.mu.Unlock()
	}
	return int(now.Sub(start).Hours() / 24)
}

func (e *Engine) priorBeliefs(userID string) []detect.Finding {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.beliefLog[userID]
}

func (e *Engine) recordBeliefs(userID string, findings []detect.Finding) {
	if len(findings) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	log := append(e.beliefLog[userID], findings...)
	if len(log) > beliefLogCap {
		log = log[len(log)-beliefLogCap:]
	}
	e.beliefLog[userID] = log
}

// #endregion

// #region persistence

// persist writes the snapshot through the storage adapter when one is
// configured. Persistence failures are logged, never surfaced: the in-memory
// pipeline result stands either way.
func (e *Engine) persist(snap *Snapshot, userState gating.UserState) {
	if e.db == nil {
		return
	}
	if err := e.db.SaveAllianceMeasurement(snap.UserID, snap.Alliance); err != nil {
		e.log.Warn("persist alliance", zap.Error(err))
	}
	if err := e.db.SaveAttachmentAssessment(snap.UserID, snap.Attachment); err != nil {
		e.log.Warn("persist attachment", zap.Error(err))
	}
	for _, area := range e.growth.Areas(snap.UserID) {
		if err := e.db.SaveGrowthArea(snap.UserID, area); err != nil {
			e.log.Warn("persist growth area", zap.Error(err))
		}
	}
	for _, p := range snap.MetaPatterns {
		if err := e.db.SaveMetaPattern(snap.UserID, p); err != nil {
			e.log.Warn("persist meta pattern", zap.Error(err))
		}
	}
	for tier, d := range snap.Decisions {
		err := e.db.LogGatingDecision(store.GatingLogEntry{
			UserID:   snap.UserID,
			Tier:     tier,
			Decision: d,
			Alliance: snap.AllianceLevel,
			Days:     snap.DaysSinceStart,
		})
		if err != nil {
			e.log.Warn("persist gating decision", zap.Error(err))
		}
	}
}

// RestoreUser loads the user's persisted tracker state into memory. Called
// by long-running hosts on first contact after a restart.
func (e *Engine) RestoreUser(userID string) error {
	if e.db == nil {
		return nil
	}

	e.lockUser(userID)
	defer e.unlockUser(userID)

	measurements, err := e.db.LoadAllianceHistory(userID, 50)
	if err != nil {
		return err
	}
	e.alliance.Restore(userID, measurements)

	assessments, err := e.db.LoadAttachmentHistory(userID, 50)
	if err != nil {
		return err
	}
	e.attachment.Restore(userID, assessments)

	areas, err := e.db.LoadGrowthAreas(userID)
	if err != nil {
		return err
	}
	e.growth.Restore(userID, areas)

	patterns, err := e.db.LoadMetaPatterns(userID)
	if err != nil {
		return err
	}
	e.meta.Restore(userID, patterns)

	// Rebuild the ratchet from the restored history.
	peak := 0.0
	for _, m := range measurements {
		if m.Overall > peak {
			peak = m.Overall
		}
	}
	e.mu.Lock()
	if peak > e.peak[userID] {
		e.peak[userID] = peak
	}
	e.mu.Unlock()
	return nil
}

// #endregion
