package classify

// Locale tags for the keyword table.
const (
	LocaleEnglish = "en"
	LocaleArabic  = "ar"
)

// Keyword is one locale-tagged phrase matched by case-sensitive substring
// containment against the page body text. No normalization, no fuzzing:
// the application renders these strings verbatim.
type Keyword struct {
	Locale string
	Phrase string
}

// The two source call sites used to carry slightly different copies of
// these lists; they are consolidated here so the home and profile surface
// checks cannot drift apart. The standalone "Suspended" token the home
// list used to carry was dropped: it substring-matches unrelated timeline
// copy, and the specific phrases below cover every wall it caught.
var suspensionKeywords = []Keyword{
	{LocaleEnglish, "Account suspended"},
	{LocaleArabic, "موقوف"},
	{LocaleEnglish, "Twitter suspends accounts"},
	{LocaleEnglish, "This account has been suspended"},
	{LocaleArabic, "يوقف حسابات"},
	{LocaleEnglish, "To unlock your account"},
	{LocaleEnglish, "your account is suspended"},
	{LocaleArabic, "لإلغاء قفل حسابك"},
	{LocaleArabic, "تم إيقاف حسابك"},
	{LocaleEnglish, "Permanently suspended"},
	{LocaleArabic, "موقوف نهائياً"},
	{LocaleArabic, "حسابك في وضع القراءة فقط بشكل دائم"},
	{LocaleArabic, "بعد مراجعة متأنية، قرّرنا أن حسابك انتهك قوانين X"},
}

// The generic "Something went wrong" phrase is what the application shows
// for deactivated accounts, so it counts as nonexistence.
var nonexistenceKeywords = []Keyword{
	{LocaleEnglish, "This account doesn’t exist"},
	{LocaleArabic, "هذا الحساب غير موجود"},
	{LocaleEnglish, "This account doesn't exist"},
	{LocaleEnglish, "Something went wrong, but don’t fret"},
	{LocaleArabic, "حدث خطأ ما"},
}

// SuspensionKeywords returns the suspension phrase table in scan order.
func SuspensionKeywords() []Keyword {
	return append([]Keyword(nil), suspensionKeywords...)
}

// NonexistenceKeywords returns the nonexistence phrase table in scan order.
func NonexistenceKeywords() []Keyword {
	return append([]Keyword(nil), nonexistenceKeywords...)
}
