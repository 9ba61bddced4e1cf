package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// wa.me 深链格式：https://wa.me/<数字号码>?text=<urlencode 文案>
const baseURL = "https://wa.me/"

// NormalizeNumber 去掉号码中的格式字符，只保留数字。
// 输入如 "(11) 93758-7626" 或 "+55 11 93758-7626"。
func NormalizeNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PaymentLink 生成付款确认跳转链接，文案预填套餐价格与用户回联方式。
// contact 为空时省略回联那句，不留悬空的冒号。
func PaymentLink(number string, priceBRL float64, contact string) string {
	text := fmt.Sprintf("Olá! Acabei de fazer o pagamento de R$ %.2f para o plano mensal.", priceBRL)
	if contact != "" {
		text += fmt.Sprintf(" Meu WhatsApp é: %s", contact)
	}
	return Link(number, text)
}

// MovieLink 生成影片咨询跳转链接，文案预填片名与价格
func MovieLink(number, title string, price float64) string {
	text := fmt.Sprintf("Olá! Tenho interesse em \"%s\" (R$ %.2f).", title, price)
	return Link(number, text)
}

// Link 生成带预填文案的 wa.me 深链
func Link(number, text string) string {
	u := baseURL + NormalizeNumber(number)
	if text == "" {
		return u
	}
	return u + "?text=" + url.QueryEscape(text)
}
