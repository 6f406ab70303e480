package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in English
const (
	startText = "🎂 Company Birthday Bot\nChoose a command below:"

	helpText = "🤖 Bot commands:\n" +
		"/start - main menu\n" +
		"/add Name DD.MM - add a birthday\n" +
		"/list - show all birthdays\n" +
		"/import - import from the CSV file\n" +
		"/getid - show this chat's ID\n" +
		"/check - run the birthday check here (test run)\n" +
		"/sync - rewrite the roster and CSV files\n" +
		"/debug - bot status"

	addUsage      = "Use: /add Name DD.MM\nExample: /add Ivan 15.05"
	addPrompt     = "Send the name and date as: Name DD.MM\nExample: Ivan 15.05"
	addedFmt      = "✅ %s added: %s"
	invalidDate   = "❌ Invalid date! Use DD.MM with day 1-31 and month 1-12."
	invalidName   = "❌ The name must not be empty."
	saveFailed    = "❌ Could not save the roster. Please try again later."
	emptyList     = "📭 The birthday list is empty"
	listTitle     = "📅 Birthdays:"
	importedFmt   = "✅ Imported records: %d"
	importMissing = "❌ File %s not found"
	importFailed  = "❌ Import error: %v"
	syncedText    = "💾 Files synchronized"
	syncFailed    = "❌ Synchronization failed: %v"
	chatIDFmt     = "🆔 This chat's ID: %d\n\nSet it as CHAT_ID to receive notifications."
	checkNobody   = "✅ Check done: nobody has a birthday today."
	checkSentFmt  = "✅ Check done: greeted %d person(s)."
	checkFailed   = "❌ Check failed: %v"
	unknownText   = "Unknown command! Use /help"

	debugFmt = "🐛 Debug information:\n" +
		"• Chat ID: %s\n" +
		"• Timezone: %s\n" +
		"• Daily check at: %s\n" +
		"• Holidays: %d (non-working days skipped: %s)\n" +
		"• Birthdays: %d\n" +
		"• Generation backend: %s\n" +
		"• Mode: %s\n" +
		"• Last run: %s"
)

// mainMenuKeyboard builds the inline menu; callback data are command names.
func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add", CmdAdd.String()),
			tgbotapi.NewInlineKeyboardButtonData("📋 List", CmdList.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Import CSV", CmdImport.String()),
			tgbotapi.NewInlineKeyboardButtonData("💾 Sync", CmdSync.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🆔 Get ID", CmdGetID.String()),
			tgbotapi.NewInlineKeyboardButtonData("🔍 Check", CmdCheck.String()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", CmdHelp.String()),
			tgbotapi.NewInlineKeyboardButtonData("🐛 Debug", CmdDebug.String()),
		),
	)
}
