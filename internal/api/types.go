package api

type RegisterPatientRequest struct {
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
	AgeType  string `json:"age_type"`
	MobileNo string `json:"mobile_no"`
	District string `json:"district"`
}

type LoginRequest struct {
	MobileNo string `json:"mobile_no"`
}

type PatientResponse struct {
	PatientID string  `json:"patient_id"`
	FirstName string  `json:"first_name"`
	Gender    string  `json:"gender"`
	Age       int     `json:"age"`
	AgeType   string  `json:"age_type"`
	Mobile    string  `json:"mobile"`
	District  string  `json:"district"`
	Image     *string `json:"image"`
}

type PatientWithFollowUpResponse struct {
	Name               string  `json:"name"`
	FirstName          string  `json:"first_name"`
	Age                int     `json:"p_age"`
	Image              *string `json:"image"`
	CustomerGroup      string  `json:"customer_group"`
	FollowUpID         *string `json:"followupId"`
	FollowUpStartDate  *string `json:"followupStartDate"`
	FollowUpExpiration *string `json:"followupExpirationDate"`
	FollowUpStatus     *string `json:"followupStatus"`
}

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id"`
	PractitionerID  string `json:"practitioner_id"`
	AppointmentDate string `json:"appointment_date"`
}

type BookingResponse struct {
	AppointmentID   string  `json:"appointment_id"`
	AppointmentType string  `json:"appointment_type"`
	AmountCharged   float64 `json:"amount_charged"`
	OriginalAmount  float64 `json:"original_amount"`
}

type QuoteResponse struct {
	PayableAmount   float64 `json:"payable_amount"`
	OriginalAmount  float64 `json:"original_amount"`
	AppointmentType string  `json:"appointment_type"`
	FollowUp        bool    `json:"follow_up"`
}

type AppointmentResponse struct {
	Name          string  `json:"name"`
	Patient       string  `json:"patient"`
	PatientName   string  `json:"patient_name"`
	Practitioner  string  `json:"practitioner"`
	PayableAmount float64 `json:"payable_amount"`
	Date          string  `json:"date"`
	Creation      string  `json:"creation"`
	Source        string  `json:"appointment_source"`
}

type DoctorResponse struct {
	Name             string   `json:"name"`
	DoctorName       string   `json:"practitioner_name"`
	ConsultingCharge *float64 `json:"op_consulting_charge"`
	Department       string   `json:"department"`
	Image            *string  `json:"image"`
	Services         *string  `json:"services"`
	Experience       *string  `json:"experience"`
	AvailableTime    *string  `json:"available_time"`
}

type DepartmentResponse struct {
	Name           string  `json:"name"`
	DepartmentName string  `json:"department_name"`
	Image          *string `json:"department_img"`
}

type BannerResponse struct {
	Name  string  `json:"name"`
	Image *string `json:"banner_image"`
	Type  string  `json:"banner_type"`
}

type OrderItemResponse struct {
	ItemCode string  `json:"item_code"`
	ItemName string  `json:"item_name"`
	Qty      float64 `json:"qty"`
	Rate     float64 `json:"rate"`
	Amount   float64 `json:"amount"`
	Image    *string `json:"image"`
}

type OrderResponse struct {
	Name            string              `json:"name"`
	TransactionDate string              `json:"transaction_date"`
	Customer        string              `json:"customer"`
	CustomerGroup   string              `json:"customer_group"`
	Patient         string              `json:"patient"`
	PatientName     string              `json:"patient_name"`
	DeliveryDate    *string             `json:"delivery_date"`
	Status          string              `json:"status"`
	ContactMobile   string              `json:"contact_mobile"`
	GrandTotal      float64             `json:"grand_total"`
	Items           []OrderItemResponse `json:"items"`
}

type InvoiceResponse struct {
	InvoiceID  string  `json:"invoice_id"`
	OrderID    string  `json:"order_id"`
	GrandTotal float64 `json:"grand_total"`
}

type LabTestItemResponse struct {
	Test        string `json:"test"`
	Event       string `json:"lab_test_event"`
	ResultValue string `json:"result_value"`
	NormalRange string `json:"normal_range"`
	UOM         string `json:"lab_test_uom"`
	Comment     string `json:"lab_test_comment"`
	Flag        string `json:"flag"`
}

type LabResultResponse struct {
	Name         string                `json:"name"`
	Patient      string                `json:"patient"`
	PatientName  string                `json:"patient_name"`
	Practitioner string                `json:"practitioner"`
	Status       string                `json:"status"`
	Items        []LabTestItemResponse `json:"items"`
}

type SendOTPRequest struct {
	MobileNo string `json:"mobile_no"`
}

type VerifyOTPRequest struct {
	MobileNo string `json:"mobile_no"`
	OTP      string `json:"otp"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}
