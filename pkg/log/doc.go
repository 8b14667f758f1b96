/*
Package log provides structured logging for the engine using zerolog.

A single global logger is configured once via Init and shared by every
package that logs: the transaction processor, the gap detector and
backfiller, the relational index synchronizer, the peer gap-fill server
and the Raft coordinator each take a component-scoped child logger from
WithComponent. The narrower WithTree/WithAsset/WithPeer helpers build
loggers scoped to one tree, asset, or remote peer; no package in this
module calls them.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true, Output: os.Stdout})

	storeLog := log.WithComponent("store")
	storeLog.Info().Msg("opened embedded store")

	treeLog := log.WithComponent("gapdetector")
	treeLog.Warn().Str("tree", tree.String()).Msg("gap detected")
*/
package log
