package utils

import (
	"log"

	"rau/database"
	"rau/models"

	"gorm.io/gorm"
)

// Notification fan-out per booking event, driven by admin-editable message
// templates. Every send attempt lands in the communication log; failures are
// logged and never block the booking flow that triggered them.

func loadTemplate(templateType string) (*models.MessageTemplate, bool) {
	var template models.MessageTemplate
	err := database.Database.Db.
		Where("message_type = ? AND is_active = true", templateType).
		First(&template).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[NOTIFY] failed to load template '%s': %v", templateType, err)
		}
		return nil, false
	}
	return &template, true
}

// SendEmailWithTemplate renders a template, wraps it in the company theme and
// sends it, logging the outcome.
func SendEmailWithTemplate(templateType, recipientEmail string, context map[string]string, booking *models.Booking) bool {
	if recipientEmail == "" {
		return false
	}
	template, ok := loadTemplate(templateType)
	if !ok {
		log.Printf("[NOTIFY] template '%s' not found or inactive", templateType)
		return false
	}

	subject, bodyContent := template.RenderEmail(context)
	html := getEmailTemplate(subject, bodyContent, context["company_name"])

	var bookingID *uint
	if booking != nil {
		bookingID = &booking.ID
	}
	entry := models.CommunicationLog{
		BookingID:         bookingID,
		RecipientEmail:    recipientEmail,
		CommunicationType: models.CommunicationEmail,
		MessageTemplateID: &template.ID,
		Subject:           subject,
		Body:              html,
	}

	if err := SendEmail(recipientEmail, context["client_name"], subject, html); err != nil {
		entry.Status = models.CommunicationFailed
		entry.ErrorMessage = err.Error()
		database.Database.Db.Create(&entry)
		return false
	}
	entry.Status = models.CommunicationSent
	database.Database.Db.Create(&entry)
	return true
}

// SendSMSWithTemplate renders and sends the SMS variant of a template.
func SendSMSWithTemplate(templateType, recipientPhone string, context map[string]string, booking *models.Booking) bool {
	if recipientPhone == "" {
		return false
	}
	template, ok := loadTemplate(templateType)
	if !ok {
		log.Printf("[NOTIFY] template '%s' not found or inactive", templateType)
		return false
	}
	var bookingID *uint
	if booking != nil {
		bookingID = &booking.ID
	}
	return SendSMS(recipientPhone, template.RenderSMS(context), bookingID)
}

// buildBookingContext assembles the placeholder map shared by all booking
// templates. Associations are loaded on demand so event subscribers can pass
// a bare booking row.
func buildBookingContext(booking *models.Booking) map[string]string {
	db := database.Database.Db

	cfg, err := models.GetSystemConfig(db)
	companyName := "RAU Scheduling"
	if err == nil {
		companyName = cfg.CompanyName
	}

	if booking.Salesman == nil {
		var salesman models.User
		if err := db.First(&salesman, booking.SalesmanID).Error; err == nil {
			booking.Salesman = &salesman
		}
	}
	if booking.Client == nil && booking.ClientID != nil {
		var client models.Client
		if err := db.First(&client, *booking.ClientID).Error; err == nil {
			booking.Client = &client
		}
	}

	meetingDetails := ""
	switch booking.AppointmentType {
	case models.AppointmentLiveTransfer:
		meetingDetails = "This is a LIVE TRANSFER appointment."
	case models.AppointmentInPerson:
		meetingDetails = "In-Person Meeting"
		if booking.MeetingAddress != "" {
			meetingDetails = "Location: " + booking.MeetingAddress
		}
	case models.AppointmentZoom:
		meetingDetails = "Zoom Meeting"
		if booking.ZoomLink != "" {
			meetingDetails = "Zoom Link: " + booking.ZoomLink
		}
	}

	context := map[string]string{
		"company_name":     companyName,
		"appointment_date": booking.AppointmentDate,
		"appointment_time": booking.AppointmentTime,
		"meeting_type":     booking.AppointmentType,
		"meeting_details":  meetingDetails,
		"booking_status":   booking.Status,
		"location":         booking.MeetingAddress,
		"zoom_link":        booking.ZoomLink,
	}
	if booking.Salesman != nil {
		context["salesman_name"] = booking.Salesman.FullName()
	}
	if booking.Client != nil {
		context["client_name"] = booking.Client.FullName()
		context["business_name"] = booking.Client.BusinessName
	}
	return context
}

func notifyCreator(templateType string, booking *models.Booking, context map[string]string) {
	if booking.CreatedByID == nil {
		return
	}
	var agent models.User
	if err := database.Database.Db.First(&agent, *booking.CreatedByID).Error; err != nil {
		return
	}
	agentContext := make(map[string]string, len(context)+1)
	for k, v := range context {
		agentContext[k] = v
	}
	agentContext["agent_name"] = agent.FullName()
	SendEmailWithTemplate(templateType, agent.Email, agentContext, booking)
	SendSMSWithTemplate(templateType, agent.PhoneNumber, agentContext, booking)
}

// SendBookingCreatedNotification notifies the creating agent and all admins
// about a new booking.
func SendBookingCreatedNotification(booking *models.Booking) {
	context := buildBookingContext(booking)
	notifyCreator("booking_created_agent", booking, context)

	var admins []models.User
	if err := database.Database.Db.
		Where("role = ? AND is_deleted = false AND is_blocked = false", models.RoleAdmin).
		Find(&admins).Error; err != nil {
		log.Printf("[NOTIFY] failed to load admins for booking %d: %v", booking.ID, err)
		return
	}
	for i := range admins {
		adminContext := make(map[string]string, len(context)+1)
		for k, v := range context {
			adminContext[k] = v
		}
		adminContext["admin_name"] = admins[i].FullName()
		SendEmailWithTemplate("booking_created_admin", admins[i].Email, adminContext, booking)
		SendSMSWithTemplate("booking_created_admin", admins[i].PhoneNumber, adminContext, booking)
	}
}

// SendBookingApprovedNotification fans out approval messages. Live transfers
// only notify the agent and the approving admin; zoom and in-person bookings
// also reach the client and the salesman.
func SendBookingApprovedNotification(booking *models.Booking) {
	context := buildBookingContext(booking)
	notifyCreator("booking_approved_agent", booking, context)

	if booking.ApprovedByID != nil {
		var admin models.User
		if err := database.Database.Db.First(&admin, *booking.ApprovedByID).Error; err == nil {
			adminContext := make(map[string]string, len(context)+1)
			for k, v := range context {
				adminContext[k] = v
			}
			adminContext["admin_name"] = admin.FullName()
			SendEmailWithTemplate("booking_approved_admin", admin.Email, adminContext, booking)
		}
	}

	if booking.AppointmentType == models.AppointmentLiveTransfer {
		return
	}

	if booking.Client != nil {
		SendEmailWithTemplate("booking_approved_client", booking.Client.Email, context, booking)
		SendSMSWithTemplate("booking_approved_client", booking.Client.PhoneNumber, context, booking)
	}
	if booking.Salesman != nil {
		SendEmailWithTemplate("booking_approved_salesman", booking.Salesman.Email, context, booking)
		SendSMSWithTemplate("booking_approved_salesman", booking.Salesman.PhoneNumber, context, booking)
	}
}

// SendBookingDeclinedNotification notifies the agent and the declining admin.
func SendBookingDeclinedNotification(booking *models.Booking) {
	context := buildBookingContext(booking)
	if booking.DeclineReason != "" {
		context["decline_reason"] = booking.DeclineReason
	} else {
		context["decline_reason"] = "See email"
	}
	notifyCreator("booking_declined_agent", booking, context)

	if booking.DeclinedByID != nil {
		var admin models.User
		if err := database.Database.Db.First(&admin, *booking.DeclinedByID).Error; err == nil {
			SendEmailWithTemplate("booking_declined_admin", admin.Email, context, booking)
		}
	}
}

// SendBookingReminder reaches the client and the salesman ahead of the
// appointment. Live transfers carry no reminder.
func SendBookingReminder(booking *models.Booking) {
	if booking.AppointmentType == models.AppointmentLiveTransfer {
		return
	}
	context := buildBookingContext(booking)
	if booking.Client != nil {
		SendEmailWithTemplate("booking_reminder_client", booking.Client.Email, context, booking)
		SendSMSWithTemplate("booking_reminder_client", booking.Client.PhoneNumber, context, booking)
	}
	if booking.Salesman != nil {
		SendEmailWithTemplate("booking_reminder_salesman", booking.Salesman.Email, context, booking)
		SendSMSWithTemplate("booking_reminder_salesman", booking.Salesman.PhoneNumber, context, booking)
	}
}
