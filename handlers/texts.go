package handlers

import (
	"fmt"
	"strings"

	"community-helper-bot/models"
)

// Button labels. Private text equal to one of these is treated as a menu action.
const (
	btnGroupLink     = "🌐 رابط المجموعة"
	btnSupport       = "💬 الدعم الفني"
	btnReferralLink  = "🔗 رابط الإحالة الخاص بي"
	btnRules         = "📜 قانون المجموعة"
	btnMyStats       = "🧮 إحصائياتي"
	btnRewards       = "🎁 المكافآت"
	btnControlPanel  = "🧰 لوحة التحكم"
	btnResponsesMenu = "📂 إدارة الردود الجاهزة"
	btnManagersMenu  = "👨‍💼 إدارة المدراء"
	btnTopReferrers  = "📊 الإحالات و المكافآت"
	btnBroadcast     = "📢 رسالة للمجموعة"
	btnSettings      = "⚙️ إعدادات البوت"
	btnExport        = "📥 تصدير الإحالات"
	btnBackToMain    = "⬅️ رجوع للقائمة الرئيسية"
	btnAddResponse   = "➕ إضافة رد جديد"
	btnEditResponse  = "✏️ تعديل رد"
	btnDeleteResp    = "🗑 حذف رد"
	btnBackToPanel   = "⬅️ رجوع للوحة التحكم"
	btnAddManager    = "➕ إضافة مدير"
	btnRemoveManager = "➖ حذف مدير"
	btnListManagers  = "📋 قائمة المدراء"

	kwReferrals = "إحالاتي"
	kwSupport   = "دعم"
)

// Group phrases that flip moderation mode.
const (
	phraseModerationOn  = "بسم الله"
	phraseModerationOff = "الحمد لله"
)

const (
	txtWelcome = "🔹 مرحبًا بك في بوت Arinas Helper!\n\n" +
		"⚙️ استخدم الأزرار الموجودة في الأسفل للتنقل في البوت 🌟\n" +
		"👇👇👇"
	txtRules = "📜 قانون المجموعة:\n" +
		"1️⃣ الاحترام المتبادل بين جميع الأعضاء.\n" +
		"2️⃣ يمنع السب والشتم والإعلانات العشوائية.\n" +
		"3️⃣ الالتزام بتعليمات الإدارة.\n"
	txtNoStats          = "لم يتم العثور على بياناتك بعد."
	txtAdminOnly        = "❌ هذه الميزة متاحة فقط للأدمن الرئيسي."
	txtGroupAdminOnly   = "❌ هذا الأمر متاح فقط للأدمن والمدراء!"
	txtControlPanel     = "🧰 لوحة تحكم الأدمن الرئيسي:"
	txtChooseOperation  = "📂 اختر العملية المطلوبة:"
	txtManagersMenu     = "👨‍💼 إدارة المدراء:"
	txtBackToMain       = "🔙 تم الرجوع إلى القائمة الرئيسية."
	txtNoReferrals      = "لا يوجد إحالات مسجّلة بعد."
	txtNoManagers       = "لا يوجد مدراء مضافون بعد."
	txtTryAgain         = "⚠️ حدث خطأ مؤقت، حاول مرة أخرى بعد قليل."
	txtGroupAlive       = "🤖 البوت يعمل بنجاح في المجموعة!"
	txtModerationOn     = "✅ تم تفعيل وضع الشرح يرجى من الجميع الإنتباه."
	txtModerationOff    = "✅ تم إنهاء وضع الشرح بإمكانكم طرح الأسئلة نشكركم لحسن الإستماع ."
	txtBroadcastPrompt  = "✉️ أرسل الآن الرسالة التي تريد إرسالها إلى المجموعة:"
	txtBroadcastEmpty   = "❌ الرجاء إرسال نص الرسالة."
	txtBroadcastSent    = "✅ تم إرسال الرسالة إلى المجموعة."
	txtBroadcastHeader  = "📢 رسالة من الإدارة:\n\n"
	txtManagerAddPrompt = "👤 أرسل الآن آيدي تيليجرام للمدير الجديد (أرقام فقط):"
	txtManagerDelPrompt = "🗑 أرسل آيدي المدير الذي تريد حذفه:"
	txtInvalidID        = "❌ الرجاء إرسال آيدي صالح (أرقام فقط)."
	txtAddTrigger       = "📝 أرسل الكلمة أو العبارة المحفّزة للرد:"
	txtEditTrigger      = "✏️ أرسل الكلمة المحفزة للرد الذي تريد تعديله:"
	txtDeleteTrigger    = "🗑 أرسل الكلمة المحفزة للرد الذي تريد حذفه:"
	txtInvalidTrigger   = "❌ الرجاء إرسال كلمة صالحة."
	txtTriggerExists    = "⚠️ هذا الرد موجود بالفعل، يمكنك تعديله من قائمة التعديل."
	txtTriggerMissing   = "❌ لم يتم العثور على رد بهذه الكلمة."
	txtChooseKind       = "اختر نوع الرد:"
	txtChooseNewKind    = "اختر نوع الرد الجديد:"
	txtInvalidKind      = "❌ الرجاء اختيار نوع صحيح (نص / صورة / فيديو / صوت / ملف / رابط)."
	txtInvalidText      = "❌ الرجاء إرسال نص صالح."
	txtMissingFile      = "❌ لم يتم العثور على ملف مناسب، حاول مرة أخرى."
	txtResponseSaved    = "✅ تم حفظ الرد بنجاح."
	txtResponseUpdated  = "✅ تم تحديث الرد بنجاح."
	txtResponseDeleted  = "✅ تم حذف الرد."
	txtExportCaption    = "📥 ملف الإحالات"
)

func txtGroupLink(link string) string {
	return fmt.Sprintf("🌐 رابط الانضمام للمجموعة:\n%s\n\n"+
		"✨ لمزيد من النجاحات وفرص العمر، انضم لفريقنا اليوم! 🚀\n"+
		"نحن هنا لندعمك ونحقق معًا أهدافك! 💪🔥", link)
}

func txtSupport(username string) string {
	return fmt.Sprintf("💬 للتواصل مع الدعم الفني:\n"+
		"اضغط على الرابط: @%s\n"+
		"أو افتح الحساب مباشرة: https://t.me/%s", username, username)
}

func txtSupportShort(username string) string {
	return "💬 للتواصل مع الدعم الفني:\n@" + username
}

func txtReferralLink(link string) string {
	return fmt.Sprintf("🔗 رابط الإحالة الخاص بك:\n%s\n\n"+
		"📌 شارك هذا الرابط مع أصدقائك لتحصل على إحالات ومكافآت!", link)
}

func txtReferralDashboard(link string, count int) string {
	return fmt.Sprintf("📊 لوحة الإحالات:\n\n"+
		"🔗 رابط الإحالة الخاص بك:\n%s\n\n"+
		"👥 عدد الإحالات الناجحة: %d", link, count)
}

func txtMyStats(username string, count int, referred []models.Member) string {
	if username == "" {
		username = "بدون"
	}
	names := make([]string, 0, len(referred))
	for _, m := range referred {
		if m.Username != nil && *m.Username != "" {
			names = append(names, "@"+*m.Username)
		} else {
			names = append(names, fmt.Sprintf("مستخدم %d", m.TelegramID))
		}
	}
	list := "لا توجد إحالات بعد"
	if len(names) > 0 {
		list = strings.Join(names, "\n")
	}
	return fmt.Sprintf("🧮 إحصائياتك:\n\n"+
		"👤 المعرف: @%s\n"+
		"🔗 عدد الإحالات الناجحة: %d\n\n"+
		"👥 قائمة إحالاتك:\n%s\n\n"+
		"💡 يمكنك رؤية أسماء المستخدمين الذين أحالتهم أعلاه!", username, count, list)
}

func txtRewards(threshold, count int, eligible bool) string {
	status := "❌ غير مؤهل بعد"
	if eligible {
		status = "✅ مؤهل"
	}
	return fmt.Sprintf("🎁 نظام المكافآت:\n\n"+
		"كل عضو يصل إلى %d إحالة ناجحة يحصل على:\n"+
		"🏆 متجر إلكتروني جاهز 🎉\n\n"+
		"🔗 إحالاتك الحالية: %d\n"+
		"📌 حالتك: %s", threshold, count, status)
}

func txtNewReferral(newHandle, referrerHandle string, count int) string {
	return fmt.Sprintf("🎉 إحالة جديدة! 🌟\n\n"+
		"👤 العضو: @%s\n"+
		"🤝 بواسطة: @%s\n"+
		"🔢 إجمالي إحالات @%s: %d\n\n"+
		"🚀 استمر في النجاح! 💪", newHandle, referrerHandle, referrerHandle, count)
}

func txtReward(handle string) string {
	return fmt.Sprintf("🏆 مبروك @%s! تحصلت على الجائزة (متجر إلكتروني جاهز) 🎉", handle)
}

func txtTopReferrers(top []models.Member) string {
	lines := []string{"📊 أفضل المحيلين:"}
	for i, m := range top {
		name := fmt.Sprintf("ID %d", m.TelegramID)
		if m.Username != nil && *m.Username != "" {
			name = *m.Username
		}
		lines = append(lines, fmt.Sprintf("%d. %s → %d إحالة", i+1, name, m.ReferralCount))
	}
	return strings.Join(lines, "\n")
}

func txtManagerList(managers []models.Manager) string {
	lines := []string{"📋 قائمة المدراء:"}
	for _, m := range managers {
		lines = append(lines, fmt.Sprintf("• %d", m.TelegramID))
	}
	return strings.Join(lines, "\n")
}

func txtManagerAdded(id int64) string   { return fmt.Sprintf("✅ تم إضافة المدير: %d", id) }
func txtManagerRemoved(id int64) string { return fmt.Sprintf("✅ تم حذف المدير: %d", id) }
func txtManagerUnknown(id int64) string { return fmt.Sprintf("ℹ️ المستخدم %d ليس مديرًا.", id) }

func txtSettings(moderation bool) string {
	mode := "متوقف ⛔️"
	if moderation {
		mode = "مفعل ✅"
	}
	return fmt.Sprintf("⚙️ إعدادات البوت الحالية:\n"+
		"🧩 وضع الشرح: %s\n\n"+
		"لتفعيل وضع الشرح في المجموعة اكتب: %s\n"+
		"ولإلغائه اكتب: %s", mode, phraseModerationOn, phraseModerationOff)
}

// contentPrompt asks for the payload of kind; edit flows say "new".
func contentPrompt(kind models.ResponseKind, editing bool) string {
	switch kind {
	case models.ResponseKindText:
		if editing {
			return "✏️ أرسل الآن نص الرد الجديد:"
		}
		return "✏️ أرسل الآن نص الرد:"
	case models.ResponseKindLink:
		if editing {
			return "🔗 أرسل الآن الرابط الجديد:"
		}
		return "🔗 أرسل الآن الرابط الذي سيتم إرساله:"
	case models.ResponseKindPhoto:
		if editing {
			return "🖼 أرسل الآن الصورة الجديدة:"
		}
		return "🖼 أرسل الآن الصورة المطلوبة:"
	case models.ResponseKindVideo:
		if editing {
			return "🎬 أرسل الآن الفيديو الجديد:"
		}
		return "🎬 أرسل الآن الفيديو المطلوب:"
	case models.ResponseKindAudio:
		if editing {
			return "🎧 أرسل الآن الملف الصوتي الجديد:"
		}
		return "🎧 أرسل الآن الملف الصوتي:"
	default:
		if editing {
			return "📎 أرسل الآن الملف الجديد:"
		}
		return "📎 أرسل الآن الملف المطلوب:"
	}
}
