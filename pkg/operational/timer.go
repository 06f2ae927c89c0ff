/*
 * Copyright (C) 2024 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package operational

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
)

// Timer measures a duration and reports it to an observer.
type Timer struct {
	clock    clock.Clock
	startsAt time.Time
	observer prometheus.Observer
}

func NewTimer(o prometheus.Observer) *Timer {
	return NewTimerWithClock(clock.New(), o)
}

func NewTimerWithClock(c clock.Clock, o prometheus.Observer) *Timer {
	return &Timer{
		clock:    c,
		startsAt: c.Now(),
		observer: o,
	}
}

// ObserveSeconds stops the timer and reports the elapsed seconds.
func (t *Timer) ObserveSeconds() time.Duration {
	d := t.clock.Since(t.startsAt)
	t.observer.Observe(d.Seconds())
	return d
}
