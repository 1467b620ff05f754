package render

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
)

const (
	// Menu
	MsgMenu = `🐟 Пожалуйста, выберите товар:`

	// Help
	MsgHelp = `🐟 Я помогу выбрать и заказать свежую рыбу.

/start - открыть каталог
/help - эта подсказка

В карточке товара выберите количество, чтобы положить его в корзину.
В корзине можно убрать лишнее и оформить заказ.`

	// Product
	MsgChooseQuantity = `Выберите количество или вернитесь в меню`
	MsgAddedToCart    = `✅ Добавлено в корзину: %d кг`
	MsgAddFailed      = `❌ Не удалось добавить товар в корзину`

	// Cart
	MsgCartEmpty      = `🛒 Корзина пуста`
	MsgItemRemoved    = `Товар удалён из корзины`
	MsgItemNotRemoved = `Товар уже удалён из корзины`

	// Checkout
	MsgAskEmail     = `📧 Пришлите, пожалуйста, вашу почту, и мы свяжемся с вами для оформления заказа`
	MsgInvalidEmail = `❌ Похоже, это не адрес электронной почты. Попробуйте ещё раз, например: name@example.com`
	MsgEmailSaved   = `✅ Спасибо! Мы свяжемся с вами по адресу %s`

	// Errors
	ErrGeneric      = `❌ Произошла ошибка. Попробуйте ещё раз или нажмите /start`
	ErrUnknownState = `❌ Не понимаю, что вы имеете в виду. Нажмите /start чтобы начать заново.`
	ErrNotFound     = `❌ Товар не найден. Нажмите /start чтобы обновить каталог.`
	ErrNetworkIssue = `❌ Проблема с соединением. Попробуйте чуть позже.`
	ErrTimeout      = `❌ Операция заняла слишком много времени. Попробуйте ещё раз.`
	ErrUnavailable  = `❌ Магазин временно недоступен. Попробуйте через пару минут.`
)

// ProductText formats the product screen
func ProductText(p entity.ProductDescription) string {
	var sb strings.Builder

	sb.WriteString(p.Name)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s за кг\n", p.Price)
	fmt.Fprintf(&sb, "%d кг на складе\n", p.Stock)
	if p.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(p.Description)
	}

	return sb.String()
}

// CartText formats the cart screen
func CartText(c entity.CartDescription) string {
	if c.IsEmpty() {
		return MsgCartEmpty
	}

	var sb strings.Builder
	for _, item := range c.Items {
		sb.WriteString(item.Name)
		sb.WriteString("\n")
		if item.Description != "" {
			sb.WriteString(item.Description)
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s за кг\n", item.UnitPrice)
		fmt.Fprintf(&sb, "%d кг в корзине на сумму %s\n\n", item.Quantity, item.ValuePrice)
	}
	fmt.Fprintf(&sb, "Итого: %s", c.Total)

	return sb.String()
}

// AddedToCart formats the add-to-cart acknowledgment
func AddedToCart(quantity int) string {
	return fmt.Sprintf(MsgAddedToCart, quantity)
}

// EmailSaved formats the checkout confirmation
func EmailSaved(email string) string {
	return fmt.Sprintf(MsgEmailSaved, email)
}

// ClassifyError analyzes an error and returns an appropriate user-friendly message
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ErrGeneric
	case errors.Is(err, entity.ErrUnknownState):
		return ErrUnknownState
	case errors.Is(err, entity.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, entity.ErrAuth):
		return ErrUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrNetworkIssue
	}

	return ErrGeneric
}
