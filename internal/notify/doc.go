// Package notify is the notification channel of the pipeline. Task outcomes
// are turned into Events and fanned out to any number of Notifiers: the
// structured log, a terminal banner for failures and the live-reload hub,
// which ships events to browsers as CloudEvents.
package notify
