package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/papertrade/ledger"
)

// Snapshot keys. The set mirrors the simulator's durable state one key per
// field, with the trade history as a single JSON list.
const (
	keyBalance       = "balance"
	keyTrades        = "trades"
	keyCurrentPrice  = "currentPrice"
	keyPreviousPrice = "previousPrice"
	keyLastGenerated = "lastGenerated"
	keyUserName      = "userName"
	keySessionTrades = "sessionTrades"
	keyRefundGiven   = "refundGiven"
	keyBuyCount      = "buyCount"
	keySellCount     = "sellCount"
)

func encode(s Snapshot) (map[string]string, error) {
	trades, err := json.Marshal(s.Trades)
	if err != nil {
		return nil, err
	}

	kv := map[string]string{
		keyBalance:       s.Balance.StringFixed(2),
		keyTrades:        string(trades),
		keyCurrentPrice:  s.CurrentPrice.StringFixed(2),
		keyPreviousPrice: s.PreviousPrice.StringFixed(2),
		keyLastGenerated: strconv.FormatInt(s.LastGenerated.UnixMilli(), 10),
		keyUserName:      s.UserName,
		keySessionTrades: strconv.Itoa(s.SessionTrades),
		keyRefundGiven:   strconv.FormatBool(s.RefundGiven),
		keyBuyCount:      strconv.Itoa(s.BuyCount),
		keySellCount:     strconv.Itoa(s.SellCount),
	}
	if s.LastGenerated.IsZero() {
		kv[keyLastGenerated] = "0"
	}
	return kv, nil
}

// decode rebuilds a snapshot from raw pairs. Missing or malformed values
// fall back to their first-run defaults field by field; decoding never fails.
func decode(kv map[string]string) Snapshot {
	s := Defaults()

	if v, ok := kv[keyBalance]; ok {
		if d, err := decimal.NewFromString(v); err == nil && !d.IsNegative() {
			s.Balance = d
		}
	}
	if v, ok := kv[keyCurrentPrice]; ok {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			s.CurrentPrice = d
		}
	}
	// The previous quote defaults to the current one, as on first run.
	s.PreviousPrice = s.CurrentPrice
	if v, ok := kv[keyPreviousPrice]; ok {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			s.PreviousPrice = d
		}
	}
	if v, ok := kv[keyLastGenerated]; ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			s.LastGenerated = time.UnixMilli(ms)
		}
	}
	if v, ok := kv[keyTrades]; ok {
		var trades []ledger.Trade
		if err := json.Unmarshal([]byte(v), &trades); err == nil {
			s.Trades = trades
		}
	}
	s.UserName = kv[keyUserName]
	if v, ok := kv[keySessionTrades]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.SessionTrades = n
		}
	}
	s.RefundGiven = kv[keyRefundGiven] == "true"
	if v, ok := kv[keyBuyCount]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.BuyCount = n
		}
	}
	if v, ok := kv[keySellCount]; ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.SellCount = n
		}
	}
	return s
}
