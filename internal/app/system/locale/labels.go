package locale

// labels are the interface strings that are not stored content.
var labels = map[string][2]string{
	"nav.home":         {"Home", "الرئيسية"},
	"nav.services":     {"Services", "خدماتنا"},
	"nav.portfolio":    {"Portfolio", "أعمالنا"},
	"nav.blog":         {"Blog", "المدونة"},
	"nav.team":         {"Team", "فريقنا"},
	"nav.contact":      {"Contact", "تواصل معنا"},
	"nav.switch":       {"العربية", "English"},
	"portfolio.all":    {"All", "الكل"},
	"portfolio.visit":  {"Visit", "زيارة"},
	"blog.featured":    {"Featured", "مميز"},
	"blog.read":        {"Read more", "اقرأ المزيد"},
	"blog.empty":       {"No articles yet.", "لا توجد مقالات بعد."},
	"page.prev":        {"Previous", "السابق"},
	"page.next":        {"Next", "التالي"},
	"contact.name":     {"Name", "الاسم"},
	"contact.email":    {"Email", "البريد الإلكتروني"},
	"contact.phone":    {"Phone", "الهاتف"},
	"contact.company":  {"Company", "الشركة"},
	"contact.services": {"Services you are interested in", "الخدمات التي تهمك"},
	"contact.message":  {"Message", "الرسالة"},
	"contact.send":     {"Send", "إرسال"},
	"contact.thanks":   {"Thanks, we will be in touch soon.", "شكراً لك، سنتواصل معك قريباً."},
	"subscribe.title":  {"Newsletter", "النشرة البريدية"},
	"subscribe.button": {"Subscribe", "اشترك"},
	"subscribe.done":   {"You are subscribed. Thank you!", "تم اشتراكك. شكراً لك!"},
	"home.services":    {"What we do", "ماذا نقدم"},
	"home.work":        {"Selected work", "أعمال مختارة"},
	"home.posts":       {"Latest articles", "أحدث المقالات"},
	"home.tech":        {"Technologies", "التقنيات"},
	"home.clients":     {"Trusted by", "عملاؤنا"},
	"service.contact":  {"Ask about this service", "استفسر عن هذه الخدمة"},
	"back":             {"Back", "رجوع"},
	"footer.rights":    {"All rights reserved.", "جميع الحقوق محفوظة."},
	"theme.toggle":     {"Theme", "المظهر"},
	"notfound.title":   {"Page not found", "الصفحة غير موجودة"},
	"notfound.body":    {"The page you are looking for does not exist.", "الصفحة التي تبحث عنها غير موجودة."},
	"forbidden.title":  {"Access denied", "غير مسموح بالدخول"},
	"forbidden.body":   {"Your account does not have access to this page.", "لا يملك حسابك صلاحية الوصول إلى هذه الصفحة."},
	"forbidden.switch": {"Sign in as someone else", "تسجيل الدخول بحساب آخر"},
	"unauth.title":     {"Sign in required", "يلزم تسجيل الدخول"},
	"unauth.body":      {"Please sign in to continue.", "يرجى تسجيل الدخول للمتابعة."},
	"unauth.signin":    {"Sign in", "تسجيل الدخول"},
	"error.title":      {"Something went wrong", "حدث خطأ ما"},
	"error.body":       {"Something went wrong on our side. Please try again shortly.", "حدث خطأ من جهتنا. يرجى المحاولة بعد قليل."},
}

// Labels returns the interface strings for l keyed by label id.
func Labels(l string) map[string]string {
	i := 0
	if l == AR {
		i = 1
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v[i]
	}
	return out
}
