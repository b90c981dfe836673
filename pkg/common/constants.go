package common

const (
	RedisKeyScheduledReportLock = "stock-watchlist:lock:scheduled-report"

	CallbackHelpAdd      = "help_add"
	CallbackAddPrefix    = "add_"
	CallbackRemovePrefix = "remove_"
	CallbackNewsPrefix   = "news_"
)
