// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo runs the ledgers as a standalone chain: calls are admitted one at a
// time into the pending block, which is sealed and committed on a fixed interval.
package solo

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/gravis-finance/incentives/cache"
	"github.com/gravis-finance/incentives/co"
	"github.com/gravis-finance/incentives/genesis"
	"github.com/gravis-finance/incentives/gravis"
	"github.com/gravis-finance/incentives/kv"
	"github.com/gravis-finance/incentives/log"
	"github.com/gravis-finance/incentives/runtime"
	"github.com/gravis-finance/incentives/state"
)

var logger = log.WithContext("pkg", "solo")

const (
	chainBucket  = kv.Bucket("c")
	recentBlocks = 64
)

var headKey = []byte("head")

// Options configures the chain.
type Options struct {
	BlockInterval uint64        // seconds between blocks
	Clock         func() uint64 // unix seconds, time.Now when nil
	CacheSize     int
}

// Head is the header of a sealed block.
type Head struct {
	Number     uint32         `json:"number"`
	Time       uint64         `json:"time"`
	Root       gravis.Bytes32 `json:"root"`
	ParentRoot gravis.Bytes32 `json:"parentRoot"`
}

// Block is a sealed block with the receipts of its calls.
type Block struct {
	Head     *Head              `json:"head"`
	Receipts []*runtime.Receipt `json:"receipts"`
}

// Chain is the standalone chain without p2p and consensus.
type Chain struct {
	db      kv.Store
	cache   *cache.LRU
	options Options

	lock        sync.Mutex
	head        *Head
	state       *state.State
	pendingTime uint64
	receipts    []*runtime.Receipt
	recent      []*Block

	newBlock co.Signal
}

// New opens the chain stored in db, building the genesis state when db is empty.
func New(db kv.Store, gen *genesis.Genesis, options Options) (*Chain, error) {
	if options.BlockInterval == 0 {
		return nil, errors.New("zero block interval")
	}
	if options.Clock == nil {
		options.Clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	var lru *cache.LRU
	if options.CacheSize > 0 {
		var err error
		if lru, err = cache.NewLRU(options.CacheSize); err != nil {
			return nil, err
		}
	}
	c := &Chain{db: db, cache: lru, options: options}

	head, err := c.loadHead()
	if err != nil {
		return nil, err
	}
	if head == nil {
		if head, err = c.buildGenesis(gen); err != nil {
			return nil, err
		}
		logger.Info("genesis built", "network", gen.Name(), "root", head.Root)
	}
	c.head = head
	c.resetPending()
	metricHeadNumber().Set(int64(head.Number))
	return c, nil
}

func (c *Chain) loadHead() (*Head, error) {
	data, err := chainBucket.NewGetter(c.db).Get(headKey)
	if err != nil {
		if c.db.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load head")
	}
	var head Head
	if err := rlp.DecodeBytes(data, &head); err != nil {
		return nil, errors.Wrap(err, "decode head")
	}
	return &head, nil
}

func (c *Chain) buildGenesis(gen *genesis.Genesis) (*Head, error) {
	st := state.New(c.db, c.cache)
	if _, err := gen.Build(st); err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	head := &Head{Time: gen.LaunchTime()}
	if err := c.commit(st, head); err != nil {
		return nil, err
	}
	return head, nil
}

// commit writes the changes of st and head in one batch. The root of head is set.
func (c *Chain) commit(st *state.State, head *Head) error {
	stage := st.Stage(head.ParentRoot)
	head.Root = stage.Hash()

	data, err := rlp.EncodeToBytes(head)
	if err != nil {
		return err
	}
	batch := c.db.NewBatch()
	if err := chainBucket.NewPutter(batch).Put(headKey, data); err != nil {
		return err
	}
	if _, err := stage.Commit(batch); err != nil {
		return errors.WithMessage(err, "commit")
	}
	return nil
}

// resetPending starts a new pending block on top of the head.
func (c *Chain) resetPending() {
	c.state = state.New(c.db, c.cache)
	c.receipts = nil
	c.pendingTime = c.head.Time + c.options.BlockInterval
	if now := c.options.Clock(); now > c.pendingTime {
		c.pendingTime = now
	}
}

// Head returns the last sealed block header.
func (c *Chain) Head() *Head {
	c.lock.Lock()
	defer c.lock.Unlock()
	h := *c.head
	return &h
}

// Submit executes call in the pending block.
func (c *Chain) Submit(call *runtime.Call) (*runtime.Receipt, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	receipt, err := runtime.New(c.state, c.head.Number+1, c.pendingTime).Execute(call)
	if err != nil {
		return nil, err
	}
	c.receipts = append(c.receipts, receipt)
	return receipt, nil
}

// View runs fn against the pending state, at the pending block's number and time.
// fn must not modify the state.
func (c *Chain) View(fn func(st *state.State, blockNumber uint32, blockTime uint64) error) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	return fn(c.state, c.head.Number+1, c.pendingTime)
}

// Seal commits the pending block and starts the next one.
func (c *Chain) Seal() (*Block, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	head := &Head{
		Number:     c.head.Number + 1,
		Time:       c.pendingTime,
		ParentRoot: c.head.Root,
	}
	if err := c.commit(c.state, head); err != nil {
		return nil, err
	}
	blk := &Block{Head: head, Receipts: c.receipts}
	if blk.Receipts == nil {
		blk.Receipts = []*runtime.Receipt{}
	}
	c.recent = append(c.recent, blk)
	if len(c.recent) > recentBlocks {
		c.recent = c.recent[len(c.recent)-recentBlocks:]
	}
	c.head = head
	c.resetPending()

	metricHeadNumber().Set(int64(head.Number))
	metricSealedCalls().Add(int64(len(blk.Receipts)))
	logger.Debug("sealed block", "number", head.Number, "time", head.Time, "calls", len(blk.Receipts), "root", head.Root)
	c.newBlock.Broadcast()
	return blk, nil
}

// BlocksAfter returns the recently sealed blocks numbered above n, oldest first.
func (c *Chain) BlocksAfter(n uint32) []*Block {
	c.lock.Lock()
	defer c.lock.Unlock()

	var blocks []*Block
	for _, b := range c.recent {
		if b.Head.Number > n {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// NewBlockWaiter returns a waiter signaled on every sealed block.
func (c *Chain) NewBlockWaiter() co.Waiter {
	return c.newBlock.NewWaiter()
}

// Run seals a block every interval until ctx is done.
func (c *Chain) Run(ctx context.Context) error {
	logger.Info("prepared to seal blocks", "interval", c.options.BlockInterval)

	ticker := time.NewTicker(time.Duration(c.options.BlockInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval sealing service......")
			return nil
		case <-ticker.C:
			if _, err := c.Seal(); err != nil {
				logger.Error("failed to seal block", "err", err)
			}
		}
	}
}
