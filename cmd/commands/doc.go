// Package commands описывает CLI fruitbot и собирает зависимости для подкоманд.
//
// Команды
//
//   - serve   HTTP API и Telegram-бот (если задан TELEGRAM_TOKEN)
//   - score   оценка локального файла
//
// Корневая команда загружает конфигурацию, логгер и контейнер сервисов
// до запуска подкоманды и освобождает их после.
package commands
