package i18n

import (
	"strconv"
	"strings"
)

type EmailContent struct {
	Subject string
	Text    string
	HTML    string
}

type emailStrings struct {
	PasswordResetSubject string
	PasswordResetText    string
	PasswordResetHTML    string

	VerificationCodeSubject string
	VerificationCodeText    string
	VerificationCodeHTML    string

	OrderConfirmedSubject string
	OrderConfirmedText    string
	OrderConfirmedHTML    string
}

var emailTranslations = map[string]emailStrings{
	"en": {
		PasswordResetSubject: "Reset your password",
		PasswordResetText:    "Reset your password: {link}\nThe link expires in {hours} hour(s).\nIf you did not request this, ignore this email.",
		PasswordResetHTML: "<p>Password reset</p>" +
			"<p>Click the button to reset your password.</p>" +
			"<p><a href=\"{link}\">Reset password</a></p>" +
			"<p>The link expires in {hours} hour(s).</p>" +
			"<p>If you did not request this, ignore this email.</p>",

		VerificationCodeSubject: "Your verification code",
		VerificationCodeText:    "Your verification code is {code}. It is valid for {minutes} minutes.",
		VerificationCodeHTML: "<p>Identity verification</p>" +
			"<p>Use the code below to finish resetting your password.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>The code expires in {minutes} minutes.</p>" +
			"<p>If you did not request this, you can ignore this email.</p>",

		OrderConfirmedSubject: "Your order is confirmed",
		OrderConfirmedText:    "Order {orderId} has been confirmed. Total: {total}.",
		OrderConfirmedHTML: "<p>Thanks for your order!</p>" +
			"<p>Order <strong>{orderId}</strong> has been confirmed.</p>" +
			"<p>Total: <strong>{total}</strong></p>",
	},
	"de": {
		PasswordResetSubject: "Passwort zurücksetzen",
		PasswordResetText:    "Setzen Sie Ihr Passwort zurück: {link}\nDer Link ist {hours} Stunde(n) gültig.\nWenn Sie dies nicht angefordert haben, ignorieren Sie diese E-Mail.",
		PasswordResetHTML: "<p>Passwort zurücksetzen</p>" +
			"<p>Klicken Sie auf den Button, um Ihr Passwort zurückzusetzen.</p>" +
			"<p><a href=\"{link}\">Passwort zurücksetzen</a></p>" +
			"<p>Der Link ist {hours} Stunde(n) gültig.</p>" +
			"<p>Wenn Sie dies nicht angefordert haben, ignorieren Sie diese E-Mail.</p>",

		VerificationCodeSubject: "Ihr Verifizierungscode",
		VerificationCodeText:    "Ihr Verifizierungscode ist {code}. Er ist {minutes} Minuten gültig.",
		VerificationCodeHTML: "<p>Identitätsprüfung</p>" +
			"<p>Verwenden Sie den untenstehenden Code, um das Zurücksetzen abzuschließen.</p>" +
			"<p><strong>{code}</strong></p>" +
			"<p>Der Code ist in {minutes} Minuten abgelaufen.</p>" +
			"<p>Wenn Sie dies nicht angefordert haben, können Sie diese E-Mail ignorieren.</p>",

		OrderConfirmedSubject: "Ihre Bestellung ist bestätigt",
		OrderConfirmedText:    "Bestellung {orderId} wurde bestätigt. Summe: {total}.",
		OrderConfirmedHTML: "<p>Vielen Dank für Ihre Bestellung!</p>" +
			"<p>Bestellung <strong>{orderId}</strong> wurde bestätigt.</p>" +
			"<p>Summe: <strong>{total}</strong></p>",
	},
}

func emailStringsForLocale(locale string) emailStrings {
	key := NormalizeLocale(locale)
	if val, ok := emailTranslations[key]; ok {
		return val
	}
	return emailTranslations[DefaultLocale]
}

func renderTemplate(tmpl string, values map[string]string) string {
	if tmpl == "" || len(values) == 0 {
		return tmpl
	}

	replacements := make([]string, 0, len(values)*2)
	for key, value := range values {
		replacements = append(replacements, "{"+key+"}", value)
	}
	return strings.NewReplacer(replacements...).Replace(tmpl)
}

func PasswordResetEmail(locale, link string, hours int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"link":  link,
		"hours": strconv.Itoa(hours),
	}
	return EmailContent{
		Subject: templates.PasswordResetSubject,
		Text:    renderTemplate(templates.PasswordResetText, values),
		HTML:    renderTemplate(templates.PasswordResetHTML, values),
	}
}

func VerificationCodeEmail(locale, code string, minutes int) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"code":    code,
		"minutes": strconv.Itoa(minutes),
	}
	return EmailContent{
		Subject: templates.VerificationCodeSubject,
		Text:    renderTemplate(templates.VerificationCodeText, values),
		HTML:    renderTemplate(templates.VerificationCodeHTML, values),
	}
}

func OrderConfirmedEmail(locale, orderID, total string) EmailContent {
	templates := emailStringsForLocale(locale)
	values := map[string]string{
		"orderId": orderID,
		"total":   total,
	}
	return EmailContent{
		Subject: templates.OrderConfirmedSubject,
		Text:    renderTemplate(templates.OrderConfirmedText, values),
		HTML:    renderTemplate(templates.OrderConfirmedHTML, values),
	}
}
