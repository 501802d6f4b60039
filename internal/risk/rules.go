package risk

import "sort"

// rules.go - таблица правил риск-менеджмента
//
// Правило срабатывает когда R-multiple позиции достигает порога.
// За одну оценку исполняется не больше одного правила: правила
// упорядочиваются по убыванию порога и берётся первое сработавшее,
// то есть самое "продвинутое" из достигнутых.

// Действия правил
const (
	ActionClosePartial = "close_partial"
	ActionBreakeven    = "move_stop_breakeven"
	ActionTrailing     = "enable_trailing_stop"
)

// Rule - правило реакции на достигнутый R-multiple
type Rule struct {
	Name         string  // стабильное имя, попадает в журнал и уведомления
	ThresholdR   float64 // минимальный R для срабатывания
	Action       string
	ClosePercent float64 // доля позиции для close_partial, (0, 1]
}

// DefaultRules возвращает стандартную таблицу правил
func DefaultRules() []Rule {
	return []Rule{
		{Name: "partial_profit_1R", ThresholdR: 1.0, Action: ActionClosePartial, ClosePercent: 0.25},
		{Name: "breakeven_2R", ThresholdR: 2.0, Action: ActionBreakeven},
		{Name: "trailing_stop_3R", ThresholdR: 3.0, Action: ActionTrailing},
	}
}

// SelectTriggered возвращает правило с наибольшим достигнутым порогом
// или nil если ни один порог не достигнут.
//
// Входной срез не мутируется.
func SelectTriggered(rules []Rule, rMultiple float64) *Rule {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ThresholdR > sorted[j].ThresholdR
	})

	for i := range sorted {
		if rMultiple >= sorted[i].ThresholdR {
			return &sorted[i]
		}
	}
	return nil
}
