// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides channel to wait for.
type Waiter interface {
	C() <-chan struct{}
}

// Signal announces the occurrence of an event to every goroutine waiting on it.
// Unlike sync.Cond it is channel based, so waiting can be combined with select.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.l.Unlock()
}

// NewWaiter create a Waiter object for acquiring channel to wait for.
// Each call of C returns the channel closed by the next broadcast after the previous one.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.current()
	s.l.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref

		s.l.Lock()
		ref = s.current()
		s.l.Unlock()

		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
