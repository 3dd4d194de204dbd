package agenda

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ── 星期集合 ──

// mondayFirst 按周一 → 周日顺序遍历星期
var mondayFirst = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DaySet 星期集合（time.Weekday 位图，Sunday=0 … Saturday=6）
type DaySet uint8

// NewDaySet 由若干星期构造集合
func NewDaySet(days ...time.Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// Add 返回加入 d 之后的集合
func (s DaySet) Add(d time.Weekday) DaySet {
	return s | 1<<(uint(d)%7)
}

// Has 判断集合是否包含 d
func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<(uint(d)%7)) != 0
}

// Empty 集合是否为空
func (s DaySet) Empty() bool { return s == 0 }

// Len 集合大小
func (s DaySet) Len() int {
	n := 0
	for _, d := range mondayFirst {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days 按周一优先的顺序返回集合中的星期
func (s DaySet) Days() []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for _, d := range mondayFirst {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// ── 原始星期描述 ──

// DaySpec 上游的星期描述，例如 "Lunes"、"lunes, miércoles"、"1/3/5"。
// JSON 中既可能是字符串也可能是数字。
type DaySpec string

// UnmarshalJSON 同时接受 JSON 字符串、数字和 null
func (d *DaySpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DaySpec(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = DaySpec(n.String())
	return nil
}

// ── 星期解析器 ──

// DefaultDayNames 默认词表：西班牙语星期名，与上游数据的标签一致
var DefaultDayNames = map[time.Weekday][]string{
	time.Monday:    {"lunes"},
	time.Tuesday:   {"martes"},
	time.Wednesday: {"miércoles"},
	time.Thursday:  {"jueves"},
	time.Friday:    {"viernes"},
	time.Saturday:  {"sábado"},
	time.Sunday:    {"domingo"},
}

// EnglishDayNames 英语星期名，不在默认词表中。
// 需要时通过 NewDayResolver(MergeDayNames(DefaultDayNames, EnglishDayNames)) 启用；
// 启用后短 token 会命中更多星期（如 "s" 同时命中周六和周日）。
var EnglishDayNames = map[time.Weekday][]string{
	time.Monday:    {"monday"},
	time.Tuesday:   {"tuesday"},
	time.Wednesday: {"wednesday"},
	time.Thursday:  {"thursday"},
	time.Friday:    {"friday"},
	time.Saturday:  {"saturday"},
	time.Sunday:    {"sunday"},
}

// MergeDayNames 合并多个词表，不修改入参
func MergeDayNames(vocabs ...map[time.Weekday][]string) map[time.Weekday][]string {
	out := make(map[time.Weekday][]string, 7)
	for _, v := range vocabs {
		for day, names := range v {
			out[day] = append(out[day], names...)
		}
	}
	return out
}

// DayResolver 把松散格式的星期描述映射为 DaySet。
// 匹配规则：精确匹配、token 是名称前缀、名称是 token 前缀，三者满足其一即命中；
// 短 token 可能命中多个星期，全部并入结果。
type DayResolver struct {
	names [7][]string // 已归一化，按 time.Weekday 下标
}

// NewDayResolver 以给定词表创建解析器；vocab 为空时使用 DefaultDayNames
func NewDayResolver(vocab map[time.Weekday][]string) *DayResolver {
	if len(vocab) == 0 {
		vocab = DefaultDayNames
	}
	r := &DayResolver{}
	for day, names := range vocab {
		idx := int(day) % 7
		for _, n := range names {
			if nn := normalizeToken(n); nn != "" {
				r.names[idx] = append(r.names[idx], nn)
			}
		}
	}
	return r
}

var defaultResolver = NewDayResolver(nil)

// ResolveDays 使用默认词表解析星期描述
func ResolveDays(raw string) DaySet {
	return defaultResolver.Resolve(raw)
}

// Resolve 解析星期描述，无法识别时返回空集合，从不报错
func (r *DayResolver) Resolve(raw string) DaySet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	var set DaySet
	for _, tok := range splitDaySpec(raw) {
		if isDigits(tok) {
			set = set.Add(numericWeekday(tok))
			continue
		}
		tok = normalizeToken(tok)
		if tok == "" {
			continue
		}
		for idx, names := range r.names {
			for _, name := range names {
				if strings.HasPrefix(name, tok) || strings.HasPrefix(tok, name) {
					set = set.Add(time.Weekday(idx))
					break
				}
			}
		}
	}
	return set
}

// splitDaySpec 按连续的 , ; / 或空白切分，丢弃空 token
func splitDaySpec(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || unicode.IsSpace(r)
	})
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// numericWeekday 数字 n 映射为 time.Weekday(n % 7)。
// 0-6 (Sunday=0) 与 1-7 (Monday=1, 7=Sunday) 两种约定在此规则下结果一致。
// 逐位取模，任意长度的数字串都不会溢出。
func numericWeekday(digits string) time.Weekday {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = (n*10 + int(digits[i]-'0')) % 7
	}
	return time.Weekday(n)
}

// normalizeToken 小写 + 去除变音符号（á→a, ñ→n, ü→u …）
func normalizeToken(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
