// Package matching содержит чистую логику текстового сравнения заявок.
// Пакет не зависит от слоя хранения и HTTP.
package matching

import (
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// CombinedText собирает текст заявки для сравнения: название, описание
// и приметы через пробел, в нижнем регистре.
func CombinedText(name, description, features string) string {
	return strings.ToLower(name + " " + description + " " + features)
}

// Score возвращает схожесть двух текстов от 0 до 100.
// Слова в каждом тексте сортируются перед сравнением, поэтому результат
// не зависит от порядка слов (token sort ratio). Функция детерминирована
// и принимает произвольные строки, включая пустые.
func Score(a, b string) int {
	ca := canonicalize(a)
	cb := canonicalize(b)

	// Пустой текст ни на что не похож, кроме другого пустого.
	if ca == "" && cb == "" {
		return 100
	}
	if ca == "" || cb == "" {
		return 0
	}

	return fuzzy.Ratio(ca, cb)
}

// canonicalize приводит строку к нижнему регистру, разбивает на токены
// по пробельным символам, сортирует и склеивает обратно.
func canonicalize(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
