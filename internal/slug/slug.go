// Package slug 从文章标题派生 URL 安全的唯一标识。
package slug

import "strings"

// Generate 从标题生成 slug
// 规则：转小写，仅保留 [a-z0-9 -]，空白折叠为单个连字符，
// 连续连字符折叠为一个，去掉首尾连字符。
// 标题不含字母数字时结果为空串，调用方需按冲突处理。
func Generate(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-':
			b.WriteByte('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	joined := strings.Join(fields, "-")

	for strings.Contains(joined, "--") {
		joined = strings.ReplaceAll(joined, "--", "-")
	}
	return strings.Trim(joined, "-")
}
