package dispatch

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/cauldron-reservations/reservation/contract"
)

func infosForGroup(group Group, serviceTimes []contractx.TimeOfDay) []*schema.ToolInfo {
	switch group {
	case GroupBookings:
		return []*schema.ToolInfo{
			{
				Name: ToolFindNextAvailableDate,
				Desc: fmt.Sprintf(
					"Determines the next available booking slot given the number of guests and the date to start searching from. The restaurant only accepts bookings at %s.",
					joinTimes(serviceTimes)),
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"start_date": {Type: schema.String, Desc: "The date to start searching from", Required: true},
					"party_size": {Type: schema.String, Desc: "The number of guests", Required: true},
				}),
			},
			{
				Name: ToolCheckAvailability,
				Desc: "Checks if a date, time, and number of guests are available.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"date":       {Type: schema.String, Desc: "The date of the appointment", Required: true},
					"time":       {Type: schema.String, Desc: "The time of the appointment", Required: true},
					"party_size": {Type: schema.String, Desc: "The number of guests", Required: true},
				}),
			},
			{
				Name: ToolBookAppointment,
				Desc: "Makes a booking if the date, time, and number of guests are available.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"date":       {Type: schema.String, Desc: "The date of the appointment", Required: true},
					"time":       {Type: schema.String, Desc: "The time of the appointment", Required: true},
					"name":       {Type: schema.String, Desc: "The name of the customer", Required: true},
					"email":      {Type: schema.String, Desc: "The email of the customer", Required: true},
					"phone":      {Type: schema.String, Desc: "The phone number of the customer", Required: true},
					"party_size": {Type: schema.String, Desc: "The number of guests", Required: true},
				}),
			},
			{
				Name: ToolCancelBooking,
				Desc: "Cancels a booking given the name, date, and time of the booking.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"date": {Type: schema.String, Desc: "The date of the appointment", Required: true},
					"time": {Type: schema.String, Desc: "The time of the appointment", Required: true},
					"name": {Type: schema.String, Desc: "The name of the customer", Required: true},
				}),
			},
		}
	case GroupRestaurantInfo:
		return []*schema.ToolInfo{
			{
				Name: ToolRestaurantDetails,
				Desc: "Fetches all attributes and values of the restaurant, such as email address, phone number, address, description.",
			},
			{
				Name: ToolGetMenu,
				Desc: "Fetches menu items and details, including dietary tags.",
			},
			{
				Name: ToolSubmitFeedback,
				Desc: "Records customer feedback given the customer name and email address.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"name":    {Type: schema.String, Desc: "The name of the customer", Required: true},
					"email":   {Type: schema.String, Desc: "The email of the customer", Required: true},
					"message": {Type: schema.String, Desc: "Feedback message", Required: true},
				}),
			},
		}
	default:
		return nil
	}
}

func joinTimes(times []contractx.TimeOfDay) string {
	if len(times) == 0 {
		return "the configured service times"
	}
	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = string(t)
	}
	return strings.Join(parts, " and ")
}
