// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/holiman/uint256"
)

const (
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
)

func levelColor(l slog.Level) int {
	switch {
	case l >= LevelCrit:
		return 35
	case l >= slog.LevelError:
		return 31
	case l >= slog.LevelWarn:
		return 33
	case l >= slog.LevelInfo:
		return 32
	case l >= slog.LevelDebug:
		return 36
	default:
		return 34
	}
}

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	lvl := LevelAlignedString(r.Level)
	if h.useColor {
		buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m", levelColor(r.Level), lvl)
	} else {
		buf = append(buf, lvl...)
	}
	buf = append(buf, " ["...)
	buf = r.Time.AppendFormat(buf, termTimeFormat)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)

	if len(h.attrs)+r.NumAttrs() > 0 && len(r.Message) < termMsgJust {
		buf = append(buf, strings.Repeat(" ", termMsgJust-len(r.Message))...)
	}

	appendAttr := func(attr slog.Attr) bool {
		buf = append(buf, ' ')
		if h.useColor {
			buf = fmt.Appendf(buf, "\x1b[%dm%s\x1b[0m=", levelColor(r.Level), attr.Key)
		} else {
			buf = append(buf, attr.Key...)
			buf = append(buf, '=')
		}
		buf = append(buf, formatValue(attr.Value)...)
		return true
	}
	for _, attr := range h.attrs {
		appendAttr(attr)
	}
	r.Attrs(appendAttr)
	return append(buf, '\n')
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindTime:
		return v.Time().Format(timeFormat)
	case slog.KindDuration:
		return v.Duration().Round(time.Microsecond).String()
	}
	switch x := v.Any().(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		if x == nil {
			return "<nil>"
		}
		return x.String()
	case *uint256.Int:
		if x == nil {
			return "<nil>"
		}
		return x.Dec()
	case error:
		return quoteIfNeeded(x.Error())
	case fmt.Stringer:
		return quoteIfNeeded(x.String())
	}
	return quoteIfNeeded(fmt.Sprintf("%+v", v.Any()))
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return strconv.Quote(s)
	}
	return s
}
