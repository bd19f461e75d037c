// Package document implements the "Label: value" text format used for
// reference documents in the vector store.
//
// A document is a sequence of lines. Each field line has the form
//
//	<Label>: <value>
//
// A Layout selects the label that carries the entity name and the label whose
// value starts the body text. The body runs from that label to the end of the
// document (or to a repeated body label), so multi-line values and trailing
// fields are kept with it:
//
//	KRX 업종명: 반도체
//	상세내용: 메모리 및 비메모리 반도체 제조
//	대표기업: 삼성전자, SK하이닉스
//
// parses with IndustryLayout to Name "반도체" and Body
// "메모리 및 비메모리 반도체 제조\n대표기업: 삼성전자, SK하이닉스".
package document
