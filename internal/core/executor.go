package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"chartdeps/internal/ports"
	"chartdeps/internal/types"
)

const defaultExecutorWorkers = 4

const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateFailed
	stateBlocked
)

// Executor runs a built graph: fetches external archives, extracts
// every edge into its target's working tree, and packages each chart
// exactly once.  Nodes with no path between them run concurrently on a
// worker pool; nodes linked by an edge are strictly ordered.  A failed
// node marks its transitive dependents blocked instead of cancelling
// the run, so independent subgraphs always finish.
type Executor struct {
	Packager  ports.PackagerPort
	Extractor ports.ExtractorPort
	External  ports.ExternalResolverPort
	OutputDir string
	Workers   int
}

func NewExecutor(packager ports.PackagerPort, extractor ports.ExtractorPort, external ports.ExternalResolverPort, outputDir string, workers int) *Executor {
	if workers <= 0 {
		workers = defaultExecutorWorkers
	}
	return &Executor{
		Packager:  packager,
		Extractor: extractor,
		External:  external,
		OutputDir: outputDir,
		Workers:   workers,
	}
}

type execNode struct {
	node     *Node
	depCount atomic.Int32
	state    atomic.Int32
	skipOnce sync.Once

	// Written before the node signals completion or failure, read by
	// dependents and the final report only after that signal.
	archive   string
	err       error
	blockedBy types.NodeID
}

// Run executes the graph and reports the outcome of every node.  The
// report lists nodes in topological order, names the root cause for
// every blocked node, and sets Failed if any node did not succeed.
func (e *Executor) Run(ctx context.Context, graph *Graph) types.BuildReport {
	logger := log.Ctx(ctx)
	order := graph.TopoOrder()

	nodes := map[types.NodeID]*execNode{}
	for _, node := range order {
		en := &execNode{node: node}
		en.depCount.Store(int32(len(node.Incoming())))
		nodes[node.ID] = en
	}

	readyChan := make(chan *execNode, len(nodes))
	for _, node := range order {
		if nodes[node.ID].depCount.Load() == 0 {
			readyChan <- nodes[node.ID]
		}
	}

	var wg sync.WaitGroup
	wg.Add(len(nodes))
	for i := 0; i < e.Workers; i++ {
		go e.worker(ctx, readyChan, nodes, &wg)
	}
	wg.Wait()
	close(readyChan)

	report := types.BuildReport{}
	for _, node := range order {
		en := nodes[node.ID]
		entry := types.NodeReport{Node: node.ID}
		switch en.state.Load() {
		case stateDone:
			entry.Status = types.ChartStatusSucceeded
			entry.Archive = en.archive
		case stateFailed:
			if node.IsExternal() {
				entry.Status = types.ChartStatusFetchFailed
			} else {
				entry.Status = types.ChartStatusPackagingFailed
			}
			entry.Error = en.err.Error()
			report.Failed = true
		default:
			entry.Status = types.ChartStatusBlocked
			entry.BlockedBy = en.blockedBy
			if en.err != nil {
				entry.Error = en.err.Error()
			}
			report.Failed = true
		}
		report.Nodes = append(report.Nodes, entry)
	}
	logger.Info().Bool("failed", report.Failed).Int("nodes", len(report.Nodes)).Msg("build run finished")
	return report
}

func (e *Executor) worker(ctx context.Context, readyChan chan *execNode, nodes map[types.NodeID]*execNode, wg *sync.WaitGroup) {
	logger := log.Ctx(ctx)
	for en := range readyChan {
		if !en.state.CompareAndSwap(statePending, stateRunning) {
			// Already blocked by an upstream failure that raced with the
			// last successful dependency.
			continue
		}
		if ctx.Err() != nil {
			en.skipOnce.Do(func() {
				en.state.Store(stateBlocked)
				en.err = ctx.Err()
				e.skipDependents(ctx, en, nodes, en.node.ID, wg)
				wg.Done()
			})
			continue
		}

		err := e.runNode(ctx, en, nodes)
		if err != nil {
			logger.Error().Str("node", string(en.node.ID)).Err(err).Msg("node failed")
			en.err = err
			en.state.Store(stateFailed)
			e.skipDependents(ctx, en, nodes, en.node.ID, wg)
			wg.Done()
			continue
		}

		en.state.Store(stateDone)
		logger.Debug().Str("node", string(en.node.ID)).Str("archive", en.archive).Msg("node completed")
		for _, dependent := range en.node.Dependents() {
			if nodes[dependent.ID].depCount.Add(-1) == 0 {
				readyChan <- nodes[dependent.ID]
			}
		}
		wg.Done()
	}
}

// skipDependents marks every transitive dependent of a failed node as
// blocked, recording the original root cause.  Each node is skipped at
// most once; already-running siblings in independent subgraphs are left
// alone to finish.
func (e *Executor) skipDependents(ctx context.Context, en *execNode, nodes map[types.NodeID]*execNode, root types.NodeID, wg *sync.WaitGroup) {
	for _, dependent := range en.node.Dependents() {
		dep := nodes[dependent.ID]
		dep.skipOnce.Do(func() {
			log.Ctx(ctx).Warn().
				Str("node", string(dep.node.ID)).
				Str("blocked_by", string(root)).
				Msg("skipping node due to upstream failure")
			dep.state.Store(stateBlocked)
			dep.blockedBy = root
			e.skipDependents(ctx, dep, nodes, root, wg)
			wg.Done()
		})
	}
}

func (e *Executor) runNode(ctx context.Context, en *execNode, nodes map[types.NodeID]*execNode) error {
	if en.node.IsExternal() {
		archive, err := e.External.Resolve(ctx, *en.node.External)
		if err != nil {
			return err
		}
		en.archive = archive
		return nil
	}

	chart := en.node.Chart
	for _, edge := range en.node.Incoming() {
		source := nodes[edge.Source.ID]
		if err := e.Extractor.Extract(source.archive, chart.Source, edge.Subdir); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("packaging failed for %s: cannot place dependency %s", chart.Key, edge.Source.ID)).
				WithCause(err)
		}
	}
	archive, err := e.Packager.Package(ctx, *chart, e.OutputDir)
	if err != nil {
		return err
	}
	chart.ArchivePath = archive
	en.archive = archive
	return nil
}
