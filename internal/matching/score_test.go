package matching

import "testing"

func TestScore_IdenticalStrings(t *testing.T) {
	if got := Score("чёрный кошелёк из кожи", "чёрный кошелёк из кожи"); got != 100 {
		t.Fatalf("одинаковые строки должны давать 100, получили %d", got)
	}
}

func TestScore_TokenOrderDoesNotMatter(t *testing.T) {
	a := "black leather wallet"
	b := "wallet leather black"

	if got := Score(a, b); got != 100 {
		t.Fatalf("перестановка слов не должна менять оценку, получили %d", got)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	if got := Score("IPHONE BLACK", "iphone black"); got != 100 {
		t.Fatalf("регистр не должен влиять на оценку, получили %d", got)
	}
}

func TestScore_Symmetric(t *testing.T) {
	a := "ключи с синим брелком"
	b := "связка ключей, брелок синий"

	if Score(a, b) != Score(b, a) {
		t.Fatalf("оценка должна быть симметричной: %d != %d", Score(a, b), Score(b, a))
	}
}

func TestScore_SimilarDescriptions(t *testing.T) {
	lost := "iPhone 13, black, cracked screen"
	found := "iPhone13 black cracked screen"

	got := Score(lost, found)
	if got <= 85 {
		t.Fatalf("близкие описания должны давать высокую оценку, получили %d", got)
	}
}

func TestScore_UnrelatedDescriptions(t *testing.T) {
	got := Score("красный зонт", "ноутбук серебристый thinkpad")
	if got >= 50 {
		t.Fatalf("несвязанные описания должны давать низкую оценку, получили %d", got)
	}
}

func TestScore_EmptyStrings(t *testing.T) {
	if got := Score("", ""); got != 100 {
		t.Fatalf("две пустые строки дают 100, получили %d", got)
	}
	if got := Score("кошелёк", ""); got != 0 {
		t.Fatalf("пустая строка против непустой даёт 0, получили %d", got)
	}
	if got := Score("", "кошелёк"); got != 0 {
		t.Fatalf("пустая строка против непустой даёт 0, получили %d", got)
	}
	// Строка из одних пробелов эквивалентна пустой.
	if got := Score("   ", ""); got != 100 {
		t.Fatalf("пробельная строка эквивалентна пустой, получили %d", got)
	}
}

func TestScore_WhitespaceNormalization(t *testing.T) {
	if got := Score("синяя  сумка", "синяя сумка"); got != 100 {
		t.Fatalf("повторные пробелы не должны влиять на оценку, получили %d", got)
	}
}

func TestCombinedText(t *testing.T) {
	got := CombinedText("Кошелёк", "Чёрный кожаный", "потёртый угол")
	want := "кошелёк чёрный кожаный потёртый угол"
	if got != want {
		t.Fatalf("ожидали %q, получили %q", want, got)
	}
}
