package http

import (
	"encoding/xml"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// TwiMLResponse struct - XML reply envelope understood by the provider
type TwiMLResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// writeTwiML - Serializes the reply into the webhook response body
func writeTwiML(c *fiber.Ctx, reply string) error {
	body, err := xml.Marshal(TwiMLResponse{Message: reply})
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).SendString("encoding error")
	}

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Status(fiber.StatusOK).Send(append([]byte(xml.Header), body...))
}
