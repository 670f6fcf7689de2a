package i18n

var catalog = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":                "Некорректный запрос",
		"error.unauthorized":               "Требуется авторизация",
		"error.forbidden":                  "Недостаточно прав",
		"error.not_found":                  "Не найдено",
		"error.internal":                   "Внутренняя ошибка сервера",
		"error.too_many_requests":          "Слишком много запросов, попробуйте позже",
		"error.token_invalid":              "Недействительный токен",
		"error.token_revoked":              "Сессия завершена, войдите снова",
		"error.jwt_secret_missing":         "Секрет подписи токенов не настроен",
		"error.auth_header_missing":        "Отсутствует заголовок авторизации",
		"error.auth_header_invalid":        "Некорректный заголовок авторизации",
		"error.admin_exists":               "Администратор с таким логином уже существует",
		"error.queue_unavailable":          "Очередь задач недоступна",
		"error.user_id_invalid":            "Некорректный идентификатор пользователя",
		"error.user_id_type_invalid":       "Некорректный тип идентификатора пользователя",
		"error.admin_id_invalid":           "Некорректный идентификатор администратора",
		"error.admin_id_type_invalid":      "Некорректный тип идентификатора администратора",
		"error.login_invalid":              "Неверный логин или пароль",
		"error.password_invalid":           "Неверный текущий пароль",
		"error.password_min_length":        "Пароль должен содержать не менее %d символов",
		"error.telegram_init_data_invalid": "Не удалось проверить данные Telegram",
		"error.telegram_init_data_expired": "Данные Telegram устарели, перезапустите приложение",
		"error.user_disabled":              "Аккаунт заблокирован",
		"error.product_not_found":          "Товар не найден",
		"error.product_unavailable":        "Товар недоступен",
		"error.product_invalid":            "Некорректные данные товара",
		"error.stock_insufficient":         "Недостаточно товара на складе",
		"error.category_not_found":         "Категория не найдена",
		"error.category_slug_exists":       "Категория с таким slug уже существует",
		"error.category_in_use":            "Категория содержит товары или подкатегории",
		"error.category_parent_invalid":    "Некорректная родительская категория",
		"error.cart_empty":                 "Корзина пуста",
		"error.cart_too_large":             "Слишком много позиций в корзине",
		"error.vehicle_incomplete":         "Укажите марку, модель, год и двигатель",
		"error.order_not_found":            "Заказ не найден",
		"error.order_status_invalid":       "Недопустимый статус заказа",
		"error.status_transition_invalid":  "Недопустимая смена статуса",
		"error.delivery_invalid":           "Некорректные данные доставки",
		"error.phone_invalid":              "Введите корректный номер телефона",
		"error.order_item_invalid":         "Некорректная позиция заказа",
		"error.payment_not_found":          "Платёж не найден",
		"error.payment_failed":             "Не удалось создать платёж",
		"error.payment_disabled":           "Онлайн-оплата недоступна",
		"error.payment_already_paid":       "Заказ уже оплачен",
		"error.payment_invalid":            "Некорректный платёж",
		"error.shipping_unavailable":       "Расчёт доставки недоступен",
		"error.shipping_failed":            "Не удалось получить данные доставки",
		"error.seller_not_found":           "Продавец не найден",
		"error.seller_exists":              "Заявка продавца уже подана",
		"error.seller_not_approved":        "Продавец не одобрен",
		"error.subscription_inactive":      "Подписка продавца не активна",
		"error.listing_not_found":          "Объявление не найдено",
		"error.listing_invalid":            "Заполните название и цену больше нуля",
		"error.preorder_invalid":           "Укажите название запчасти и телефон",
		"error.preorder_not_found":         "Заявка не найдена",
		"error.chat_disabled":              "Консультант недоступен",
		"error.chat_failed":                "Консультант не смог ответить, попробуйте позже",
		"error.showcase_invalid":           "Некорректный список витрины",
		"error.role_invalid":               "Некорректная роль",
		"error.authz_unavailable":          "Сервис прав доступа недоступен",
		"notify.order_status":              "Заказ %s: %s",
		"notify.new_order":                 "Новый заказ %s на сумму %s ₽",
		"notify.subscription_expired":      "Подписка продавца закончилась, продлите её, чтобы публиковать объявления",
		"order.status.pending_payment":     "ожидает оплаты",
		"order.status.paid":                "оплачен",
		"order.status.processing":          "собирается",
		"order.status.shipped":             "отправлен",
		"order.status.completed":           "выполнен",
		"order.status.canceled":            "отменён",
		"error.rate_limited":               "Слишком много запросов, повторите через %d с",
		"error.rate_limit_unavailable":     "Сервис временно недоступен, попробуйте позже",
		"error.login_too_many":             "Слишком много попыток входа, повторите через %d с",
	},
	LocaleEN: {
		"error.bad_request":                "Bad request",
		"error.unauthorized":               "Authorization required",
		"error.forbidden":                  "Permission denied",
		"error.not_found":                  "Not found",
		"error.internal":                   "Internal server error",
		"error.too_many_requests":          "Too many requests, try again later",
		"error.token_invalid":              "Invalid token",
		"error.token_revoked":              "Session ended, please sign in again",
		"error.jwt_secret_missing":         "Token signing secret is not configured",
		"error.auth_header_missing":        "Authorization header is missing",
		"error.auth_header_invalid":        "Authorization header is invalid",
		"error.admin_exists":               "Admin with this username already exists",
		"error.queue_unavailable":          "Task queue is unavailable",
		"error.user_id_invalid":            "Invalid user id",
		"error.user_id_type_invalid":       "Invalid user id type",
		"error.admin_id_invalid":           "Invalid admin id",
		"error.admin_id_type_invalid":      "Invalid admin id type",
		"error.login_invalid":              "Invalid username or password",
		"error.password_invalid":           "Current password is wrong",
		"error.password_min_length":        "Password must be at least %d characters",
		"error.telegram_init_data_invalid": "Telegram data verification failed",
		"error.telegram_init_data_expired": "Telegram data expired, reopen the app",
		"error.user_disabled":              "Account is disabled",
		"error.product_not_found":          "Product not found",
		"error.product_unavailable":        "Product is unavailable",
		"error.product_invalid":            "Invalid product data",
		"error.stock_insufficient":         "Not enough stock",
		"error.category_not_found":         "Category not found",
		"error.category_slug_exists":       "Category slug already exists",
		"error.category_in_use":            "Category still has products or subcategories",
		"error.category_parent_invalid":    "Invalid parent category",
		"error.cart_empty":                 "Cart is empty",
		"error.cart_too_large":             "Too many cart lines",
		"error.vehicle_incomplete":         "Make, model, year and engine are required",
		"error.order_not_found":            "Order not found",
		"error.order_status_invalid":       "Invalid order status",
		"error.status_transition_invalid":  "Status transition is not allowed",
		"error.delivery_invalid":           "Invalid delivery data",
		"error.phone_invalid":              "Enter a valid phone number",
		"error.order_item_invalid":         "Invalid order item",
		"error.payment_not_found":          "Payment not found",
		"error.payment_failed":             "Could not create payment",
		"error.payment_disabled":           "Online payment is unavailable",
		"error.payment_already_paid":       "Order is already paid",
		"error.payment_invalid":            "Invalid payment",
		"error.shipping_unavailable":       "Delivery calculation is unavailable",
		"error.shipping_failed":            "Could not load delivery data",
		"error.seller_not_found":           "Seller not found",
		"error.seller_exists":              "Seller application already exists",
		"error.seller_not_approved":        "Seller is not approved",
		"error.subscription_inactive":      "Seller subscription is inactive",
		"error.listing_not_found":          "Listing not found",
		"error.listing_invalid":            "Title and a positive price are required",
		"error.preorder_invalid":           "Part name and phone are required",
		"error.preorder_not_found":         "Request not found",
		"error.chat_disabled":              "Assistant is unavailable",
		"error.chat_failed":                "Assistant could not answer, try again later",
		"error.showcase_invalid":           "Invalid showcase list",
		"error.role_invalid":               "Invalid role",
		"error.authz_unavailable":          "Authorization service unavailable",
		"notify.order_status":              "Order %s: %s",
		"notify.new_order":                 "New order %s, total %s RUB",
		"notify.subscription_expired":      "Seller subscription expired, renew it to publish listings",
		"order.status.pending_payment":     "awaiting payment",
		"order.status.paid":                "paid",
		"order.status.processing":          "being packed",
		"order.status.shipped":             "shipped",
		"order.status.completed":           "completed",
		"order.status.canceled":            "canceled",
		"error.rate_limited":               "Too many requests, retry in %d s",
		"error.rate_limit_unavailable":     "Service temporarily unavailable, try again later",
		"error.login_too_many":             "Too many login attempts, retry in %d s",
	},
}
