// @title           EstateLink API
// @version         1.0
// @description     API мессенджера и уведомлений маркетплейса недвижимости (документация Swagger).
// @contact.name    EstateLink
// @contact.email   support@estatelink.example
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "estatelink_backend/internal/app"

func main() {
	app.Run()
}
