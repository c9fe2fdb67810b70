package main

// General API documentation for swaggo. docs/ mirrors these annotations and is
// served under /swagger/ when built with the swagger tag.
//
// @title           swapd API
// @version         1.0
// @description     Scoring service backed by a hot-swappable, periodically reloaded model.
//
// @contact.name   swapd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
